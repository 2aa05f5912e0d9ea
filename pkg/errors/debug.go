package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the log-only view of an error. It is never written to clients.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Status     int      `json:"status,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	DB *DBErrorFields `json:"db,omitempty"`
}

// DBErrorFields carries driver diagnostics from Postgres or SQLite.
type DBErrorFields struct {
	Driver     string `json:"driver"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Fields flattens the dump into log fields.
func (d ErrorDump) Fields() map[string]any {
	out := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.Status != 0 {
		out["http_status"] = d.Status
	}
	if d.DB != nil {
		out["db_driver"] = d.DB.Driver
		out["db_code"] = d.DB.Code
		out["db_constraint"] = d.DB.Constraint
		out["db_table"] = d.DB.Table
		out["db_column"] = d.DB.Column
		out["db_detail"] = d.DB.Detail
		out["db_message"] = d.DB.Message
	}
	return out
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Status = MetadataFor(te.Code()).HTTPStatus
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.DB = dbFields(err)
	return d
}

func dbFields(err error) *DBErrorFields {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBErrorFields{
			Driver:     "pgx",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBErrorFields{
			Driver:     "pq",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	// sqlite surfaces constraint failures only through the message text
	for e := err; e != nil; e = errors.Unwrap(e) {
		msg := e.Error()
		if idx := strings.Index(msg, "constraint failed: "); idx >= 0 {
			return &DBErrorFields{
				Driver:     "sqlite",
				Constraint: strings.TrimSpace(msg[idx+len("constraint failed: "):]),
				Message:    msg,
			}
		}
	}
	return nil
}
