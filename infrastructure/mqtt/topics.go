package mqtt

// Topics shared by the dashboard, the signaling hub and the receiver.
const (
	TopicParticipantRequest  = "participant/request"
	TopicParticipantResponse = "participant/response"
	TopicParticipantUpdate   = "participant/update"
	TopicParticipantLeft     = "participant/left"
	TopicScreenRequest       = "screen/request"
	TopicScreenResponse      = "screen/response"
	TopicScreenUpdate        = "screen/update"
	TopicStatsUpdate         = "stats/update"
	TopicDashboardHeartbeat  = "dashboard/heartbeat"
)
