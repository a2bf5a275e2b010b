package httpapi

// Result is the JSON envelope of every data response.
// - code: 2000 on success, -1 on error
// - type: 'success' | 'error'
// - message: user-facing text
// - result: payload
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// Invalid carries a collected violation list back to the caller.
func Invalid(violations []string) Result[[]string] {
	return Result[[]string]{Code: ResultError, Type: "error", Message: "dados inválidos", Result: violations}
}
