package api

const (
	PathPing          = "/"
	PathInfo          = "/info"
	PathSummary       = "/summary"
	PathPaneParamName = "name"
	PathPane          = "/pane"
	PathOnePane       = PathPane + "/{" + PathPaneParamName + "}"
	PathShutdown      = "/shutdown"
)
