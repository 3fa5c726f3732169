package main

// Session configuration constants
const (
	SessionCookieName = "study_session"
)

// Route constants
const (
	RouteHome    = "/"
	RouteGoto    = "/goto"
	RouteNext    = "/next"
	RoutePrev    = "/prev"
	RouteFlip    = "/flip"
	RouteStar    = "/star"
	RouteLayout  = "/layout"
	RouteImport  = "/import"
	RouteSearch  = "/search"
	RouteReset   = "/reset"
	RouteHealthz = "/healthz"
	RouteDefine  = "/api/define"
	RouteChat    = "/api/chat"
)

// User-facing error message constants
const (
	ErrorEmptyImport     = "No cards found in the pasted text."
	ErrorBadIndex        = "That card does not exist."
	ErrorTermRequired    = "A term is required."
	ErrorMessageRequired = "A message is required."
	ErrorChatUnavailable = "Generation is not configured on this server."
	ErrorChatFailed      = "Generation failed. Please try again later."
)

// Template names rendered by the handlers
const (
	TemplatePage     = "index.html"
	TemplateStudy    = "study-content"
	TemplateCardList = "card-list"
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
