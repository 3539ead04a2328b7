package model

type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Index   *int   `json:"index,omitempty"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

const (
	CodeInvalidSalary = "INVALID_SALARY"
	CodeMissingSalary = "MISSING_SALARY"
	CodeEmptyBatch    = "EMPTY_BATCH"
)
