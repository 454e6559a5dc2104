package events

const (
	TopicViewportScroll    = "viewport.scroll"
	TopicViewportResize    = "viewport.resize"
	TopicTooltipVisibility = "tooltip.visibility"
)
