package events

import "sync"

// Sent is one event captured by Recorder. Topic is empty for broadcasts.
type Sent struct {
	Topic   string
	Event   string
	Payload any
}

// Recorder is an in-memory Fanout that keeps everything it is asked to deliver.
type Recorder struct {
	mu      sync.Mutex
	sent    []Sent
	members map[string]map[string]bool
}

func NewRecorder() *Recorder {
	return &Recorder{members: make(map[string]map[string]bool)}
}

func (r *Recorder) Emit(topic, event string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Sent{Topic: topic, Event: event, Payload: payload})
}

func (r *Recorder) Broadcast(event string, payload any) {
	r.Emit("", event, payload)
}

func (r *Recorder) Join(userID, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[topic] == nil {
		r.members[topic] = make(map[string]bool)
	}
	r.members[topic][userID] = true
}

func (r *Recorder) Leave(userID, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members[topic], userID)
}

func (r *Recorder) Close(topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, topic)
}

// Members returns how many users are joined to topic.
func (r *Recorder) Members(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members[topic])
}

// All returns a copy of the captured events.
func (r *Recorder) All() []Sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sent(nil), r.sent...)
}

// Named returns the captured events called event.
func (r *Recorder) Named(event string) []Sent {
	var out []Sent
	for _, s := range r.All() {
		if s.Event == event {
			out = append(out, s)
		}
	}
	return out
}

// Member reports whether userID is currently joined to topic.
func (r *Recorder) Member(userID, topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[topic][userID]
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

var _ Fanout = (*Recorder)(nil)
