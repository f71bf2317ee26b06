package errors

import "fmt"

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrInvalidPayload = fmt.Errorf("invalid payload")

	ErrUnknownParticipant = fmt.Errorf("participant is not in the roster")
	ErrAlreadyPlaced      = fmt.Errorf("participant is already placed")
	ErrBoardFull          = fmt.Errorf("all video slots are occupied")
	ErrInvalidLayout      = fmt.Errorf("layout must be between 1 and 4")
	ErrLayoutTooSmall     = fmt.Errorf("layout cannot hold the placed participants")
	ErrSlotOccupied       = fmt.Errorf("slot is already occupied")
	ErrInvalidSlot        = fmt.Errorf("slot does not exist")
	ErrRejected           = fmt.Errorf("placement rejected")

	ErrQueueFull       = fmt.Errorf("command queue is full")
	ErrCommandTimeout  = fmt.Errorf("command timed out")
	ErrNotInitialized  = fmt.Errorf("orchestrator is not started")
	ErrNotConnected    = fmt.Errorf("mqtt client is not connected")
	ErrPublishTimeout  = fmt.Errorf("mqtt publish timed out")
	ErrSnapshotMissing = fmt.Errorf("no placement snapshot stored")

	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidToken       = fmt.Errorf("invalid or expired token")

	ErrUnsupportedAudio = fmt.Errorf("unsupported audio format")
	ErrNoTranscript     = fmt.Errorf("speech recognition returned no transcript")
	ErrSpeechAPI        = fmt.Errorf("speech recognition request failed")
	ErrSpeechDisabled   = fmt.Errorf("speech recognition is not configured")

	ErrNameInUse     = fmt.Errorf("name already in use")
	ErrNoReceiver    = fmt.Errorf("no receiver in the room")
	ErrReceiverTaken = fmt.Errorf("a receiver is already connected")
	ErrInvalidRole   = fmt.Errorf("role must be receiver or sender")
	ErrInvalidSDP    = fmt.Errorf("invalid session description")
	ErrUnknownPeer   = fmt.Errorf("peer is not connected")
)
