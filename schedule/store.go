package schedule

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no configuration exists for the
// requested month.
var ErrNotFound = errors.New("schedule: not found")

// Store persists scheduling configuration, the employee roster and
// shift schedules in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS shift_config (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			shift_year           INTEGER NOT NULL,
			shift_month          INTEGER NOT NULL,
			first_day_of_week    TEXT NOT NULL,
			emp_fte_num          INTEGER NOT NULL,
			emp_pt_num           INTEGER NOT NULL,
			design_off_num       INTEGER NOT NULL,
			last_submit_day      TEXT NOT NULL,
			shift_per_day        INTEGER NOT NULL,
			fte_num_per_shift    INTEGER NOT NULL,
			pt_num_per_shift     INTEGER NOT NULL,
			fte_max_shift_per_wk INTEGER NOT NULL,
			fte_max_shift_serial INTEGER NOT NULL,
			pt_max_shift_serial  INTEGER NOT NULL,
			fte_diff_per_month   INTEGER NOT NULL,
			fte_serial_off       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_config_month ON shift_config(shift_year, shift_month)`,

		`CREATE TABLE IF NOT EXISTS employees (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			employee_type TEXT NOT NULL,
			salary_type   TEXT NOT NULL,
			salary_amount REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_emp_name ON employees(name)`,
		`CREATE INDEX IF NOT EXISTS idx_emp_type ON employees(employee_type)`,

		`CREATE TABLE IF NOT EXISTS employee_designated_off (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			employee_id INTEGER NOT NULL,
			off_date    TEXT NOT NULL,
			FOREIGN KEY (employee_id) REFERENCES employees(id) ON DELETE CASCADE,
			UNIQUE (employee_id, off_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_off_emp_date ON employee_designated_off(employee_id, off_date)`,

		`CREATE TABLE IF NOT EXISTS shop_close_days (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			close_date TEXT NOT NULL UNIQUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_close_date ON shop_close_days(close_date)`,

		`CREATE TABLE IF NOT EXISTS schedules (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			date          TEXT NOT NULL UNIQUE,
			weekday       TEXT NOT NULL,
			status        TEXT NOT NULL,
			morning_shift TEXT,
			evening_shift TEXT,
			chef          TEXT,
			remarks       TEXT,
			created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_date ON schedules(date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// InsertConfig stores a full configuration payload in one
// transaction: base parameters, roster with designated days off, and
// shop closing days.
func (s *Store) InsertConfig(p ConfigPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c := p.ShiftConfig
	if _, err := tx.Exec(`INSERT INTO shift_config
		(shift_year, shift_month, first_day_of_week, emp_fte_num, emp_pt_num,
		 design_off_num, last_submit_day, shift_per_day, fte_num_per_shift,
		 pt_num_per_shift, fte_max_shift_per_wk, fte_max_shift_serial,
		 pt_max_shift_serial, fte_diff_per_month, fte_serial_off)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.Year, c.Month, c.FirstDayOfWeek, c.FTECount, c.PTCount,
		c.DesignatedOffNum, c.LastSubmitDay, c.ShiftsPerDay, c.FTEPerShift,
		c.PTPerShift, c.FTEMaxPerWeek, c.FTEMaxSerial,
		c.PTMaxSerial, c.FTEDiffPerMonth, c.FTESerialOff,
	); err != nil {
		return fmt.Errorf("insert shift_config: %w", err)
	}

	for _, e := range p.Employees {
		res, err := tx.Exec(`INSERT INTO employees (name, employee_type, salary_type, salary_amount)
			VALUES (?,?,?,?)`,
			e.Name, e.Type, e.SalaryType, e.SalaryAmount)
		if err != nil {
			return fmt.Errorf("insert employee %s: %w", e.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, d := range e.DaysOff {
			if _, err := tx.Exec(`INSERT INTO employee_designated_off (employee_id, off_date)
				VALUES (?,?)`, id, d); err != nil {
				return fmt.Errorf("insert designated off %s %s: %w", e.Name, d, err)
			}
		}
	}

	for _, d := range p.CloseDays {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO shop_close_days (close_date) VALUES (?)`, d); err != nil {
			return fmt.Errorf("insert close day %s: %w", d, err)
		}
	}

	return tx.Commit()
}

// Config reads the latest configuration for a month, with the roster
// and closing days attached.
func (s *Store) Config(year, month int) (*ConfigPayload, error) {
	var c ShiftConfig
	err := s.db.QueryRow(`SELECT shift_year, shift_month, first_day_of_week,
		emp_fte_num, emp_pt_num, design_off_num, last_submit_day, shift_per_day,
		fte_num_per_shift, pt_num_per_shift, fte_max_shift_per_wk,
		fte_max_shift_serial, pt_max_shift_serial, fte_diff_per_month, fte_serial_off
		FROM shift_config WHERE shift_year = ? AND shift_month = ?
		ORDER BY id DESC LIMIT 1`, year, month).Scan(
		&c.Year, &c.Month, &c.FirstDayOfWeek, &c.FTECount, &c.PTCount,
		&c.DesignatedOffNum, &c.LastSubmitDay, &c.ShiftsPerDay, &c.FTEPerShift,
		&c.PTPerShift, &c.FTEMaxPerWeek, &c.FTEMaxSerial, &c.PTMaxSerial,
		&c.FTEDiffPerMonth, &c.FTESerialOff)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: config %d-%02d", ErrNotFound, year, month)
	}
	if err != nil {
		return nil, err
	}

	employees, err := s.Employees()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT close_date FROM shop_close_days ORDER BY close_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var closeDays []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		closeDays = append(closeDays, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ConfigPayload{ShiftConfig: c, Employees: employees, CloseDays: closeDays}, nil
}

// Employees reads the full roster with designated days off.
func (s *Store) Employees() ([]Employee, error) {
	rows, err := s.db.Query(`SELECT id, name, employee_type, salary_type, salary_amount
		FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.SalaryType, &e.SalaryAmount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		offs, err := s.daysOff(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].DaysOff = offs
	}
	return out, nil
}

func (s *Store) daysOff(employeeID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT off_date FROM employee_designated_off
		WHERE employee_id = ? ORDER BY off_date`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SaveDays upserts schedule rows keyed by date.
func (s *Store) SaveDays(days []Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range days {
		morning, err := json.Marshal(d.MorningShift)
		if err != nil {
			return err
		}
		evening, err := json.Marshal(d.EveningShift)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO schedules
			(date, weekday, status, morning_shift, evening_shift, chef, remarks)
			VALUES (?,?,?,?,?,?,?)
			ON CONFLICT(date) DO UPDATE SET
				weekday = excluded.weekday,
				status = excluded.status,
				morning_shift = excluded.morning_shift,
				evening_shift = excluded.evening_shift,
				chef = excluded.chef,
				remarks = excluded.remarks,
				updated_at = CURRENT_TIMESTAMP`,
			d.Date, d.Weekday, d.Status, string(morning), string(evening), d.Chef, d.Remarks,
		); err != nil {
			return fmt.Errorf("save schedule %s: %w", d.Date, err)
		}
	}

	return tx.Commit()
}

// Days reads schedule rows with start <= date <= end, ascending.
func (s *Store) Days(start, end string) ([]Day, error) {
	rows, err := s.db.Query(`SELECT date, weekday, status, morning_shift, evening_shift, chef, remarks
		FROM schedules WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Day
	for rows.Next() {
		var d Day
		var morning, evening sql.NullString
		var chef, remarks sql.NullString
		if err := rows.Scan(&d.Date, &d.Weekday, &d.Status, &morning, &evening, &chef, &remarks); err != nil {
			return nil, err
		}
		if morning.Valid && morning.String != "" {
			if err := json.Unmarshal([]byte(morning.String), &d.MorningShift); err != nil {
				return nil, fmt.Errorf("schedule %s: bad morning_shift: %w", d.Date, err)
			}
		}
		if evening.Valid && evening.String != "" {
			if err := json.Unmarshal([]byte(evening.String), &d.EveningShift); err != nil {
				return nil, fmt.Errorf("schedule %s: bad evening_shift: %w", d.Date, err)
			}
		}
		d.Chef = chef.String
		d.Remarks = remarks.String
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDays removes schedule rows with start <= date <= end.
func (s *Store) DeleteDays(start, end string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM schedules WHERE date >= ? AND date <= ?`, start, end)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
