package common

// AccessTokenHeaderName is the HTTP header carrying the session token in the
// form "Bearer <token>".
const AccessTokenHeaderName = "token"

// RequestIDHeaderName is echoed back on every response and attached to log lines.
const RequestIDHeaderName = "X-Request-ID"
