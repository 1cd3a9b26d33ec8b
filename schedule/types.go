package schedule

// ShiftConfig holds the base scheduling parameters for one month.
type ShiftConfig struct {
	Year             int    `json:"shift_year"`
	Month            int    `json:"shift_month"`
	FirstDayOfWeek   string `json:"first_day_of_week"`
	FTECount         int    `json:"emp_fte_num"`
	PTCount          int    `json:"emp_pt_num"`
	DesignatedOffNum int    `json:"design_off_num"`
	LastSubmitDay    string `json:"last_submit_day"`
	ShiftsPerDay     int    `json:"shift_per_day"`
	FTEPerShift      int    `json:"fte_num_per_shift"`
	PTPerShift       int    `json:"pt_num_per_shift"`
	FTEMaxPerWeek    int    `json:"fte_max_shift_per_wk"`
	FTEMaxSerial     int    `json:"fte_max_shift_serial"`
	PTMaxSerial      int    `json:"pt_max_shift_serial"`
	FTEDiffPerMonth  int    `json:"fte_diff_per_month"`
	FTESerialOff     int    `json:"fte_serial_off"`
}

// Employee is one roster entry. DaysOff carries the designated days
// off as "2006-01-02" dates.
type Employee struct {
	ID           int64    `json:"id,omitempty"`
	Name         string   `json:"name"`
	Type         string   `json:"employee_type"` // FTE or PT
	SalaryType   string   `json:"salary_type"`   // MONTHLY or DAILY
	SalaryAmount float64  `json:"salary_amount"`
	DaysOff      []string `json:"designated_off,omitempty"`
}

// ConfigPayload is the full scheduling configuration as submitted:
// base parameters, roster, and shop closing days.
type ConfigPayload struct {
	ShiftConfig ShiftConfig `json:"shift_config"`
	Employees   []Employee  `json:"employees"`
	CloseDays   []string    `json:"shop_close_days,omitempty"`
}

// Day is one schedule row. Shift staff lists are stored as JSON
// columns in the database.
type Day struct {
	Date         string   `json:"date"`
	Weekday      string   `json:"weekday"`
	Status       string   `json:"status"` // Open or Closed
	MorningShift []string `json:"morning_shift,omitempty"`
	EveningShift []string `json:"evening_shift,omitempty"`
	Chef         string   `json:"chef,omitempty"`
	Remarks      string   `json:"remarks,omitempty"`
}
