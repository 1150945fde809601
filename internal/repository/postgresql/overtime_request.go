package postgresql

import (
	"github.com/Masterminds/squirrel"
	"github.com/cmlabs-hris/hris-payroll/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-payroll/internal/pkg/database"
)

func NewOvertimeRequestRepository(db *database.DB) overtime.Repository {
	return &requestRepository[overtime.Payload]{
		db: db,
		codec: requestCodec[overtime.Payload]{
			table:   "overtime_requests",
			columns: []string{"date", "start_time", "end_time", "hours", "multiplier"},
			values: func(p overtime.Payload) []interface{} {
				return []interface{}{
					p.Date,
					squirrel.Expr("?::time", p.StartTime),
					squirrel.Expr("?::time", p.EndTime),
					p.Hours,
					p.Multiplier,
				}
			},
			// clock columns travel as HH:MM text
			selects: []string{
				"r.date",
				"to_char(r.start_time, 'HH24:MI')",
				"to_char(r.end_time, 'HH24:MI')",
				"r.hours",
				"r.multiplier",
			},
			targets: func(p *overtime.Payload) []interface{} {
				return []interface{}{&p.Date, &p.StartTime, &p.EndTime, &p.Hours, &p.Multiplier}
			},
		},
	}
}
