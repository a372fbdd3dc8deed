package bot

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/UnknownOlympus/bazaar/internal/game"
	"github.com/UnknownOlympus/bazaar/internal/i18n"
	"github.com/UnknownOlympus/bazaar/internal/metrics"
	"github.com/UnknownOlympus/bazaar/internal/models"
	"github.com/UnknownOlympus/bazaar/internal/org"
	"github.com/UnknownOlympus/bazaar/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

// fakeContext implements the telebot.Context methods the handlers use; any other
// call panics on the nil embedded interface.
type fakeContext struct {
	telebot.Context

	sender  *telebot.User
	message *telebot.Message
	data    string
	values  map[string]any
	sent    []any
}

func newFakeContext(userID int64, text string) *fakeContext {
	_, payload, _ := strings.Cut(text, " ")
	return &fakeContext{
		sender:  &telebot.User{ID: userID},
		message: &telebot.Message{Text: text, Payload: payload},
		values:  make(map[string]any),
	}
}

func (c *fakeContext) Sender() *telebot.User       { return c.sender }
func (c *fakeContext) Message() *telebot.Message   { return c.message }
func (c *fakeContext) Callback() *telebot.Callback { return nil }
func (c *fakeContext) Text() string                { return c.message.Text }
func (c *fakeContext) Data() string                { return c.data }
func (c *fakeContext) Args() []string              { return strings.Fields(c.message.Payload) }

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *fakeContext) Set(key string, val interface{}) { c.values[key] = val }
func (c *fakeContext) Get(key string) interface{}      { return c.values[key] }

func (c *fakeContext) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.sent)
	text, ok := c.sent[len(c.sent)-1].(string)
	require.True(t, ok, "last message is %T", c.sent[len(c.sent)-1])
	return text
}

var (
	specialist = models.Employee{
		UserID: 101, FullName: "Ivan Buyer", Position: "Специалист первой линии",
		Division: org.DivisionNTP1, Head: "Olga Head", Role: org.RoleSpecialist,
	}
	head = models.Employee{
		UserID: 201, FullName: "Olga Head", Division: org.DivisionNTP, Role: org.RoleDual,
	}
	dayOff = models.Product{
		ID: 1, Name: "Day off", Cost: 30, Count: 2, Division: org.DivisionNTP,
		ManagerRole: org.RoleDual, Active: true,
	}
)

type testBot struct {
	*Bot
	store  *repository.Memory
	engine *game.Engine
}

func newTestBot(t *testing.T) testBot {
	t.Helper()

	store := repository.NewMemory()
	store.AddEmployee(specialist)
	store.AddEmployee(head)
	store.AddProduct(dayOff)
	store.Credit(specialist.UserID, 100, nil)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())
	engine := game.NewEngine(log, store, nil, m)

	localizer, err := i18n.NewLocalizer()
	require.NoError(t, err)

	return testBot{
		Bot: &Bot{
			log:          log,
			shop:         engine,
			directory:    store,
			metrics:      m,
			stateManager: NewStateManager(),
			localizer:    localizer,
		},
		store:  store,
		engine: engine,
	}
}

// run sends text through the auth middleware into handler as userID.
func (tb testBot) run(t *testing.T, userID int64, text string, handler telebot.HandlerFunc) *fakeContext {
	t.Helper()
	tCtx := newFakeContext(userID, text)
	require.NoError(t, tb.AuthMiddleware(handler)(tCtx))
	return tCtx
}

func purchaseText(id int64, name string) string {
	return fmt.Sprintf("Заявка #%d на «%s» отправлена на согласование.", id, name)
}
