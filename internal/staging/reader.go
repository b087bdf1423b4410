package staging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/drelephant/garmadon-transfer/internal/database"
	"github.com/drelephant/garmadon-transfer/internal/logging"
)

var (
	resultTable = database.StagedHeuristicResult{}.TableName()
	detailTable = database.StagedHeuristicResultDetail{}.TableName()

	selectReadyApplicationsSQL = "SELECT DISTINCT yarn_app_result_id FROM " + resultTable +
		" WHERE ready = ?"
	selectWatermarkSQL    = "SELECT COALESCE(MAX(id), 0) FROM " + resultTable
	incrementReadTimesSQL = "UPDATE " + resultTable +
		" SET read_times = read_times + 1 WHERE id <= ?"
	selectExhaustedSQL = "SELECT id, yarn_app_result_id, ready, read_times FROM " + resultTable +
		" WHERE id <= ? AND read_times > ?"
	deleteDetailsByResultIDsSQL = "DELETE FROM " + detailTable +
		" WHERE yarn_app_heuristic_result_id IN (?)"
	deleteResultsByIDsSQL = "DELETE FROM " + resultTable + " WHERE id IN (?)"
	selectBacklogSQL      = "SELECT yarn_app_result_id," +
		" COUNT(*) AS staged_rows," +
		" SUM(CASE WHEN ready THEN 1 ELSE 0 END) AS ready_rows," +
		" MAX(read_times) AS max_read_times" +
		" FROM " + resultTable +
		" GROUP BY yarn_app_result_id" +
		" ORDER BY max_read_times DESC, yarn_app_result_id"
)

// EvictedRow describes a staged row removed because it exceeded its read attempts
type EvictedRow struct {
	ID          uint   `db:"id"`
	AppResultID string `db:"yarn_app_result_id"`
	Ready       bool   `db:"ready"`
	ReadTimes   int    `db:"read_times"`
}

// SweepResult summarizes one read-attempt sweep
type SweepResult struct {
	Incremented int64
	Evicted     []EvictedRow
}

// BacklogEntry is the staged backlog of one application
type BacklogEntry struct {
	AppResultID  string `db:"yarn_app_result_id"`
	StagedRows   int    `db:"staged_rows"`
	ReadyRows    int    `db:"ready_rows"`
	MaxReadTimes int    `db:"max_read_times"`
}

// Reader runs the set-oriented queries against the staging tables: candidate
// discovery, read-attempt accounting and eviction of abandoned rows.
type Reader struct {
	DB     *sqlx.DB
	Logger *logrus.Entry

	txOptions *sql.TxOptions
}

// NewReader returns a Reader sharing the connection pool of db.
func NewReader(db *gorm.DB) (*Reader, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unable to get sql handle: %w", err)
	}

	driver := db.Dialector.Name()
	r := &Reader{
		DB:     sqlx.NewDb(sqlDB, sqlxDriverName(driver)),
		Logger: logging.New("staging-reader"),
	}
	if driver != database.DriverSQLite {
		r.txOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	return r, nil
}

func sqlxDriverName(dialect string) string {
	if dialect == database.DriverSQLite {
		return "sqlite3"
	}
	return dialect
}

// ListReadyApplications returns every distinct application with at least one
// staged row marked ready. The order is unspecified.
func (r *Reader) ListReadyApplications(ctx context.Context) ([]string, error) {
	r.Logger.Debugf("Select all distinct ready yarn_app_result_id from %s", resultTable)

	var ids []string
	if err := r.DB.SelectContext(ctx, &ids, r.DB.Rebind(selectReadyApplicationsSQL), true); err != nil {
		return nil, ErrQuery{Query: selectReadyApplicationsSQL, Err: err}
	}
	return ids, nil
}

// Watermark returns the highest staged row id currently present, or 0 when the
// staging table is empty. Rows above the watermark were not observed by a pass.
func (r *Reader) Watermark(ctx context.Context) (uint, error) {
	var watermark uint
	if err := r.DB.GetContext(ctx, &watermark, selectWatermarkSQL); err != nil {
		return 0, ErrQuery{Query: selectWatermarkSQL, Err: err}
	}
	return watermark, nil
}

// Sweep increments the read attempts of every staged row up to watermark and
// deletes, together with their details, the rows whose attempts now exceed
// maxReadAttempts. Both steps run in one transaction.
func (r *Reader) Sweep(ctx context.Context, watermark uint, maxReadAttempts int) (*SweepResult, error) {
	result := &SweepResult{}
	if watermark == 0 {
		return result, nil
	}

	tx, rollback, err := r.startTransactionWithRollback(ctx)
	if err != nil {
		return nil, err
	}
	defer rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(incrementReadTimesSQL), watermark)
	if err != nil {
		return nil, ErrQuery{Query: incrementReadTimesSQL, Err: err}
	}
	if result.Incremented, err = res.RowsAffected(); err != nil {
		return nil, ErrQuery{Query: incrementReadTimesSQL, Err: err}
	}

	if err := tx.SelectContext(ctx, &result.Evicted, tx.Rebind(selectExhaustedSQL), watermark, maxReadAttempts); err != nil {
		return nil, ErrQuery{Query: selectExhaustedSQL, Err: err}
	}

	if len(result.Evicted) > 0 {
		ids := make([]uint, 0, len(result.Evicted))
		for _, row := range result.Evicted {
			ids = append(ids, row.ID)
		}
		// details first so none is left pointing at a deleted row
		for _, query := range []string{deleteDetailsByResultIDsSQL, deleteResultsByIDsSQL} {
			if err := execIn(ctx, tx, query, ids); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, ErrCommit{Err: err}
	}

	for _, row := range result.Evicted {
		r.Logger.WithFields(logrus.Fields{
			"staged_id":  row.ID,
			"app_id":     row.AppResultID,
			"ready":      row.Ready,
			"read_times": row.ReadTimes,
		}).Warn("Evicted staged heuristic result after too many read attempts")
	}
	return result, nil
}

// Backlog returns per-application staging counts, most-read applications first.
func (r *Reader) Backlog(ctx context.Context) ([]BacklogEntry, error) {
	var entries []BacklogEntry
	if err := r.DB.SelectContext(ctx, &entries, selectBacklogSQL); err != nil {
		return nil, ErrQuery{Query: selectBacklogSQL, Err: err}
	}
	return entries, nil
}

func execIn(ctx context.Context, tx *sqlx.Tx, query string, ids []uint) error {
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return ErrQuery{Query: query, Err: err}
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
		return ErrQuery{Query: query, Err: err}
	}
	return nil
}

func (r *Reader) startTransactionWithRollback(ctx context.Context) (*sqlx.Tx, func(), error) {
	tx, err := r.DB.BeginTxx(ctx, r.txOptions)
	if err != nil {
		return nil, nil, ErrBeginTx{Err: err}
	}

	return tx, func() {
		errRollback := tx.Rollback()
		if errRollback == nil || errors.Is(errRollback, sql.ErrTxDone) {
			return
		}
		if errors.Is(errRollback, mysql.ErrInvalidConn) {
			// Lost connection, the server resets the transaction by itself.
			return
		}
		r.Logger.WithError(errRollback).Error("Unable to roll back the staging transaction")
	}, nil
}
