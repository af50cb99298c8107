package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldReferer       = "referer"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldSessionID     = "session_id"
	FieldField         = "field"
	FieldRevision      = "revision"
	FieldPrincipal     = "principal"
	FieldAnnualRate    = "annual_rate"
	FieldTermYears     = "term_years"
	FieldDownPayment   = "down_payment"
	FieldMonthly       = "monthly_payment"
	FieldMonthlyTotal  = "monthly_with_extras"
	FieldTotalInterest = "total_interest"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentCalculator = "calculator"
	ComponentAPI        = "api"
	ComponentSession    = "session"
	ComponentAMQP       = "amqp"
	ComponentSecurity   = "security"
	ComponentRateLimit  = "rate_limit"
	ComponentTrace      = "trace"
	ComponentTemplate   = "template"
	ComponentTUI        = "tui"
)

// Operations defines standard operation names
const (
	OpEdit      = "edit"
	OpCalculate = "calculate"
	OpPublish   = "publish"
	OpConnect   = "connect"
	OpValidate  = "validate"
	OpParse     = "parse"
	OpRender    = "render"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeTimeout       = "timeout_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithClientIP adds client IP field
func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithSession adds the session the event belongs to
func (f LogFields) WithSession(sessionID string) LogFields {
	if sessionID != "" {
		f[FieldSessionID] = sessionID
	}
	return f
}

// WithLoan adds the amortizing inputs
func (f LogFields) WithLoan(principal, annualRate float64, termYears int, downPayment float64) LogFields {
	f[FieldPrincipal] = principal
	f[FieldAnnualRate] = annualRate
	f[FieldTermYears] = termYears
	f[FieldDownPayment] = downPayment
	return f
}

// WithPayment adds the headline figures of a recompute
func (f LogFields) WithPayment(monthly, monthlyWithExtras, totalInterest float64) LogFields {
	f[FieldMonthly] = monthly
	f[FieldMonthlyTotal] = monthlyWithExtras
	f[FieldTotalInterest] = totalInterest
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query, userAgent, referer string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	if referer != "" {
		f[FieldReferer] = referer
	}
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
