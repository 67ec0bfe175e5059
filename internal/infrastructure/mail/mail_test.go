package mail

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

type fakeSender struct {
	sent []Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Encolado
// ──────────────────────────────────────────────────────────────────────────────

func TestQueue_EncolaTareasConPayload(t *testing.T) {
	enq := &fakeEnqueuer{}
	q := NewQueue(enq)
	ctx := context.Background()

	require.NoError(t, q.SendVerification(ctx, "ana@example.com", "Ana", "http://x/verify?token=abc"))
	require.NoError(t, q.SendCredentials(ctx, "ana@example.com", "Ana", "Himalayan", "S3cret!", "http://x/auth/login"))
	require.Len(t, enq.tasks, 2)

	assert.Equal(t, TypeVerification, enq.tasks[0].Type())
	var v VerificationPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &v))
	assert.Equal(t, "http://x/verify?token=abc", v.Link)

	assert.Equal(t, TypeCredentials, enq.tasks[1].Type())
	var c CredentialsPayload
	require.NoError(t, json.Unmarshal(enq.tasks[1].Payload(), &c))
	assert.Equal(t, "Himalayan", c.CompanyName)
	assert.Equal(t, "S3cret!", c.Password)
}

func TestQueue_ErrorDeRedisSePropaga(t *testing.T) {
	q := NewQueue(&fakeEnqueuer{err: errors.New("redis caído")})
	err := q.SendVerification(context.Background(), "ana@example.com", "Ana", "http://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), TypeVerification)
}

// ──────────────────────────────────────────────────────────────────────────────
// Worker
// ──────────────────────────────────────────────────────────────────────────────

func TestHandler_RenderizaYEnvia(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, logger.Nop())
	task, err := NewCredentialsTask(CredentialsPayload{
		To: "ana@example.com", FullName: "<b>Ana</b>", CompanyName: "Himalayan", Password: "S3cret!", LoginLink: "http://x/auth/login",
	})
	require.NoError(t, err)

	require.NoError(t, h.HandleCredentials(context.Background(), task))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "Tu acceso a Himalayan", msg.Subject)
	assert.Contains(t, msg.HTML, "S3cret!")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Ana&lt;/b&gt;", "el nombre se escapa")
	assert.Contains(t, msg.Text, "http://x/auth/login")
}

func TestHandler_PayloadInvalidoNoSeReintenta(t *testing.T) {
	h := NewHandler(&fakeSender{}, logger.Nop())
	err := h.HandleVerification(context.Background(), asynq.NewTask(TypeVerification, []byte("no json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Contains(t, err.Error(), "unmarshal payload")
}

func TestHandler_FalloSMTPSeReintenta(t *testing.T) {
	h := NewHandler(&fakeSender{err: errors.New("dial tcp: refused")}, logger.Nop())
	task, err := NewVerificationTask(VerificationPayload{To: "ana@example.com", FullName: "Ana", Link: "http://x"})
	require.NoError(t, err)

	err = h.HandleVerification(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestRegisterHandlers_RuteaPorTipo(t *testing.T) {
	sender := &fakeSender{}
	mux := asynq.NewServeMux()
	NewHandler(sender, logger.Nop()).RegisterHandlers(mux)

	task, err := NewVerificationTask(VerificationPayload{To: "ana@example.com", FullName: "Ana", Link: "http://x/verify"})
	require.NoError(t, err)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Verifica tu email", sender.sent[0].Subject)
}
