package game

type EventType int

const (
	EventCountdownTick EventType = iota
	EventRaceStarted
	EventCollision
	EventGameOver
	EventHighScore
)

func (t EventType) String() string {
	switch t {
	case EventCountdownTick:
		return "countdown"
	case EventRaceStarted:
		return "race_started"
	case EventCollision:
		return "collision"
	case EventGameOver:
		return "game_over"
	case EventHighScore:
		return "high_score"
	}
	return "unknown"
}

type Event struct {
	Type        EventType
	ScoreMs     int64
	HighScoreMs int64
	Text        string // countdown label
}

type EventHandler func(Event)

// EventBus delivers events synchronously on the frame goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
