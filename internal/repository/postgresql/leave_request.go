package postgresql

import (
	"github.com/cmlabs-hris/hris-payroll/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
)

func NewLeaveRequestRepository(db *database.DB) leave.Repository {
	return &requestRepository[leave.Payload]{
		db: db,
		codec: requestCodec[leave.Payload]{
			table:   "leave_requests",
			columns: []string{"leave_type", "start_date", "end_date", "total_days"},
			values: func(p leave.Payload) []interface{} {
				return []interface{}{p.Type, p.StartDate, p.EndDate, p.TotalDays}
			},
			selects: []string{"r.leave_type", "r.start_date", "r.end_date", "r.total_days"},
			targets: func(p *leave.Payload) []interface{} {
				return []interface{}{&p.Type, &p.StartDate, &p.EndDate, &p.TotalDays}
			},
		},
	}
}
