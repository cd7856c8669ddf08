package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/kraftwerte/internal/history"
	"github.com/2beens/kraftwerte/internal/listview"
	"github.com/2beens/kraftwerte/internal/notify"
	"github.com/2beens/kraftwerte/internal/workflow"
)

type listMsg struct{ view listview.View }

type formMsg struct{ view workflow.FormView }

type historyMsg struct{ view history.View }

type notificationMsg struct{ notification notify.Notification }

type notificationExpiredMsg struct{ notification notify.Notification }

// confirmMsg asks the user a yes/no question, the answer goes to reply.
type confirmMsg struct {
	prompt string
	reply  chan bool
}

type opDoneMsg struct {
	op  string
	err error
}

// Surface forwards app views into a running bubbletea program.
// Views must never be pushed from inside Update, Send would block there.
type Surface struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewSurface() *Surface {
	return &Surface{}
}

// Attach sets the program messages are sent to, usually (*tea.Program).Send.
func (s *Surface) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *Surface) post(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()

	if send == nil {
		log.Debugf("surface not attached, dropping %T", msg)
		return
	}
	send(msg)
}

func (s *Surface) RenderList(view listview.View) {
	s.post(listMsg{view: view})
}

func (s *Surface) RenderForm(view workflow.FormView) {
	s.post(formMsg{view: view})
}

func (s *Surface) RenderHistory(view history.View) {
	s.post(historyMsg{view: view})
}

func (s *Surface) RenderNotification(n notify.Notification) {
	s.post(notificationMsg{notification: n})
}

// Confirm shows prompt and blocks until the user answers or ctx is done.
// It must run outside Update, typically inside a tea.Cmd.
func (s *Surface) Confirm(ctx context.Context, prompt string) bool {
	s.mu.Lock()
	attached := s.send != nil
	s.mu.Unlock()
	if !attached {
		return false
	}

	reply := make(chan bool, 1)
	s.post(confirmMsg{prompt: prompt, reply: reply})

	select {
	case answer := <-reply:
		return answer
	case <-ctx.Done():
		return false
	}
}
