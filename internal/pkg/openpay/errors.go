package openpay

import "fmt"

// Error is the JSON error body OpenPay returns for rejected requests.
type Error struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	ErrorCode   int    `json:"error_code"`
	HTTPCode    int    `json:"http_code"`
	RequestID   string `json:"request_id"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("openpay: %s (category=%s error_code=%d http_code=%d request_id=%s)",
		e.Description, e.Category, e.ErrorCode, e.HTTPCode, e.RequestID)
}
