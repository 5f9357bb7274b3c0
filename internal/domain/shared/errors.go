package shared

// DomainError is a business failure carried back to callers as an envelope
type DomainError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Envelope converts the error into a failure envelope
func (e *DomainError) Envelope() *Envelope {
	return NewErrorEnvelope(e.Code, e.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(code int, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "资源不存在")
	ErrInvalidInput = NewDomainError(CodeBadRequest, "请求参数错误")
	ErrInvalidState = NewDomainError(CodeBadRequest, "当前状态不允许此操作")
)
