package telegram

import (
	"testing"

	"rehearsal_scheduler/internal/booking"
	"rehearsal_scheduler/internal/scheduler"

	"github.com/brianvoe/gofakeit/v7"
	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock BotAPI
type MockBotAPI struct {
	mock.Mock
}

func (m *MockBotAPI) Send(c tgbot.Chattable) (tgbot.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbot.Message), args.Error(1)
}

func (m *MockBotAPI) GetUpdatesChan(_ tgbot.UpdateConfig) tgbot.UpdatesChannel {
	return make(chan tgbot.Update)
}

func (m *MockBotAPI) Request(c tgbot.Chattable) (*tgbot.APIResponse, error) {
	args := m.Called(c)
	return args.Get(0).(*tgbot.APIResponse), args.Error(1)
}

// Mock Scheduler
type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) SubmitNew(raw booking.Raw) (booking.Booking, error) {
	args := m.Called(raw)
	return args.Get(0).(booking.Booking), args.Error(1)
}

func (m *MockScheduler) SubmitUpdate(id string, raw booking.Raw) (booking.Booking, error) {
	args := m.Called(id, raw)
	return args.Get(0).(booking.Booking), args.Error(1)
}

func (m *MockScheduler) SetStatus(id string, status booking.Status) (booking.Booking, error) {
	args := m.Called(id, status)
	return args.Get(0).(booking.Booking), args.Error(1)
}

func (m *MockScheduler) RequestDelete(id string) (booking.Booking, error) {
	args := m.Called(id)
	return args.Get(0).(booking.Booking), args.Error(1)
}

func (m *MockScheduler) Get(id string) (booking.Booking, error) {
	args := m.Called(id)
	return args.Get(0).(booking.Booking), args.Error(1)
}

func (m *MockScheduler) GetView(opts scheduler.ViewOptions) ([]booking.Booking, error) {
	args := m.Called(opts)
	return args.Get(0).([]booking.Booking), args.Error(1)
}

type fixture struct {
	api     *MockBotAPI
	sched   *MockScheduler
	bot     *TgBot
	adminID int64
}

func newFixture() *fixture {
	f := &fixture{
		api:     new(MockBotAPI),
		sched:   new(MockScheduler),
		adminID: gofakeit.Int64(),
	}
	f.bot = NewBot(f.api, f.adminID, f.sched)
	return f
}

func (f *fixture) expectSends(n int) {
	f.api.On("Send", mock.Anything).Return(tgbot.Message{}, nil).Times(n)
}

func (f *fixture) command(fromID int64, text string) tgbot.Update {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return tgbot.Update{
		Message: &tgbot.Message{
			From:     &tgbot.User{ID: fromID},
			Chat:     &tgbot.Chat{ID: fromID},
			Text:     text,
			Entities: []tgbot.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
		},
	}
}

// sent returns the messages handed to Send, in order.
func (f *fixture) sent(t *testing.T) []tgbot.MessageConfig {
	t.Helper()
	var out []tgbot.MessageConfig
	for _, call := range f.api.Calls {
		if call.Method != "Send" {
			continue
		}
		msg, ok := call.Arguments.Get(0).(tgbot.MessageConfig)
		require.True(t, ok)
		out = append(out, msg)
	}
	return out
}

func fakeBooking() booking.Booking {
	return booking.Booking{
		ID:        gofakeit.UUID(),
		BandName:  gofakeit.Company(),
		Contact:   gofakeit.Name(),
		Date:      "10/05/2025",
		StartTime: "19:00",
		EndTime:   "21:00",
		Price:     "80,00",
		Status:    booking.StatusPendente,
	}
}

func TestTgBot_refusesOtherUsers(t *testing.T) {
	f := newFixture()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID+1, "/list"))

	sent := f.sent(t)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Text, "uso exclusivo")
	f.sched.AssertNotCalled(t, "GetView", mock.Anything)
	f.api.AssertExpectations(t)
}

func TestTgBot_help(t *testing.T) {
	f := newFixture()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/start"))

	assert.Equal(t, helpText, f.sent(t)[0].Text)
}

func TestTgBot_plainTextPointsToHelp(t *testing.T) {
	f := newFixture()
	f.expectSends(1)
	update := tgbot.Update{Message: &tgbot.Message{
		From: &tgbot.User{ID: f.adminID},
		Chat: &tgbot.Chat{ID: f.adminID},
		Text: gofakeit.Sentence(3),
	}}

	f.bot.processUpdate(update)

	assert.Contains(t, f.sent(t)[0].Text, "/help")
}

func TestTgBot_add(t *testing.T) {
	f := newFixture()
	added := fakeBooking()
	want := booking.Raw{
		booking.FieldBandName:  added.BandName,
		booking.FieldContact:   added.Contact,
		booking.FieldDate:      added.Date,
		booking.FieldStartTime: added.StartTime,
		booking.FieldEndTime:   added.EndTime,
		booking.FieldPrice:     added.Price,
		booking.FieldStatus:    string(added.Status),
	}
	f.sched.On("SubmitNew", want).Return(added, nil).Once()
	f.expectSends(1)

	text := "/add " + added.BandName + "; " + added.Contact + ";10/05/2025;19:00;21:00;80,00;Pendente"
	f.bot.processUpdate(f.command(f.adminID, text))

	reply := f.sent(t)[0].Text
	assert.Contains(t, reply, "agendado com sucesso")
	assert.Contains(t, reply, added.ID)
	f.sched.AssertExpectations(t)
}

func TestTgBot_addConflict(t *testing.T) {
	f := newFixture()
	existing := fakeBooking()
	f.sched.On("SubmitNew", mock.Anything).
		Return(booking.Booking{}, &booking.ConflictError{Existing: existing}).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/add A;B;10/05/2025;20:00;22:00;50;Pendente"))

	assert.Equal(t, "Este horário conflita com o ensaio da banda '"+existing.BandName+"'.", f.sent(t)[0].Text)
}

func TestTgBot_addWrongFieldCount(t *testing.T) {
	f := newFixture()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/add A;B;10/05/2025"))

	assert.Equal(t, fieldsUsage, f.sent(t)[0].Text)
	f.sched.AssertNotCalled(t, "SubmitNew", mock.Anything)
}

func TestTgBot_update(t *testing.T) {
	f := newFixture()
	updated := fakeBooking()
	f.sched.On("SubmitUpdate", updated.ID, mock.MatchedBy(func(raw booking.Raw) bool {
		return raw[booking.FieldBandName] == "Nova" && raw[booking.FieldStatus] == "Pago"
	})).Return(updated, nil).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/update "+updated.ID+";Nova;Ana;10/05/2025;19:00;21:00;80;Pago"))

	assert.Contains(t, f.sent(t)[0].Text, "atualizado com sucesso")
	f.sched.AssertExpectations(t)
}

func TestTgBot_updateWithoutID(t *testing.T) {
	f := newFixture()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/update"))

	assert.Contains(t, f.sent(t)[0].Text, "Use: /update")
	f.sched.AssertNotCalled(t, "SubmitUpdate", mock.Anything, mock.Anything)
}

func TestTgBot_listDefaultsToDate(t *testing.T) {
	f := newFixture()
	f.sched.On("GetView", scheduler.ViewOptions{SortColumn: booking.FieldDate}).
		Return([]booking.Booking{}, nil).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/list"))

	assert.Equal(t, "Nenhum ensaio encontrado.", f.sent(t)[0].Text)
	f.sched.AssertExpectations(t)
}

func TestTgBot_listSortedDescending(t *testing.T) {
	f := newFixture()
	pending := fakeBooking()
	paid := fakeBooking()
	paid.Status = booking.StatusPago
	f.sched.On("GetView", scheduler.ViewOptions{SortColumn: booking.FieldPrice, SortDescending: true}).
		Return([]booking.Booking{pending, paid}, nil).Once()
	f.expectSends(2)

	f.bot.processUpdate(f.command(f.adminID, "/list price desc"))

	sent := f.sent(t)
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].Text, pending.BandName)
	assert.Contains(t, sent[0].Text, "pendente")
	assert.Contains(t, sent[1].Text, "pago")

	pendingKeyboard, ok := sent[0].ReplyMarkup.(tgbot.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, pendingKeyboard.InlineKeyboard[0], 2)
	paidKeyboard, ok := sent[1].ReplyMarkup.(tgbot.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, paidKeyboard.InlineKeyboard[0], 1)
	assert.Equal(t, askDelPrefix+paid.ID, *paidKeyboard.InlineKeyboard[0][0].CallbackData)
}

func TestTgBot_listUnknownColumn(t *testing.T) {
	f := newFixture()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/list colour"))

	assert.Equal(t, "Coluna desconhecida: colour", f.sent(t)[0].Text)
	f.sched.AssertNotCalled(t, "GetView", mock.Anything)
}

func TestTgBot_listSortError(t *testing.T) {
	f := newFixture()
	f.sched.On("GetView", mock.Anything).
		Return([]booking.Booking(nil), &booking.SortError{Column: booking.FieldPrice, Err: booking.ErrBadPriceFormat}).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/list price"))

	assert.Equal(t, "Não foi possível ordenar a coluna. Verifique os dados.", f.sent(t)[0].Text)
}

func TestTgBot_search(t *testing.T) {
	f := newFixture()
	found := fakeBooking()
	f.sched.On("GetView", scheduler.ViewOptions{Search: "rock duo"}).
		Return([]booking.Booking{found}, nil).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/search rock duo"))

	assert.Contains(t, f.sent(t)[0].Text, found.ID)
	f.sched.AssertExpectations(t)
}

func TestTgBot_pay(t *testing.T) {
	f := newFixture()
	paid := fakeBooking()
	paid.Status = booking.StatusPago
	f.sched.On("SetStatus", paid.ID, booking.StatusPago).Return(paid, nil).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/pay "+paid.ID))

	assert.Equal(t, "Pagamento da banda '"+paid.BandName+"' registrado.", f.sent(t)[0].Text)
	f.sched.AssertExpectations(t)
}

func TestTgBot_deleteConfirmed(t *testing.T) {
	f := newFixture()
	removed := fakeBooking()
	f.sched.On("RequestDelete", removed.ID).Return(removed, nil).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/delete "+removed.ID+" sim"))

	assert.Equal(t, "Ensaio da banda '"+removed.BandName+"' excluído.", f.sent(t)[0].Text)
	f.sched.AssertExpectations(t)
}

func TestTgBot_deleteAsksForConfirmation(t *testing.T) {
	f := newFixture()
	existing := fakeBooking()
	f.sched.On("Get", existing.ID).Return(existing, nil).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/delete "+existing.ID))

	sent := f.sent(t)[0]
	assert.Equal(t, "Tem certeza que deseja excluir o ensaio da banda '"+existing.BandName+"'?", sent.Text)
	keyboard, ok := sent.ReplyMarkup.(tgbot.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, deletePrefix+existing.ID, *keyboard.InlineKeyboard[0][0].CallbackData)
	f.sched.AssertNotCalled(t, "RequestDelete", mock.Anything)
}

func TestTgBot_deleteUnknown(t *testing.T) {
	f := newFixture()
	id := gofakeit.UUID()
	f.sched.On("Get", id).Return(booking.Booking{}, booking.ErrNotFound).Once()
	f.expectSends(1)

	f.bot.processUpdate(f.command(f.adminID, "/delete "+id))

	assert.Equal(t, "Ensaio não encontrado.", f.sent(t)[0].Text)
}

func TestTgBot_deleteCallback(t *testing.T) {
	f := newFixture()
	removed := fakeBooking()
	f.sched.On("RequestDelete", removed.ID).Return(removed, nil).Once()
	f.api.On("Request", mock.Anything).Return(&tgbot.APIResponse{}, nil).Once()
	f.expectSends(1)

	f.bot.handleCallbackQuery(tgbot.Update{
		CallbackQuery: &tgbot.CallbackQuery{
			ID:      gofakeit.UUID(),
			From:    &tgbot.User{ID: f.adminID},
			Message: &tgbot.Message{Chat: &tgbot.Chat{ID: f.adminID}},
			Data:    deletePrefix + removed.ID,
		},
	})

	assert.Contains(t, f.sent(t)[0].Text, "excluído")
	f.sched.AssertExpectations(t)
	f.api.AssertExpectations(t)
}

func TestTgBot_askDeleteCallback(t *testing.T) {
	f := newFixture()
	existing := fakeBooking()
	f.sched.On("Get", existing.ID).Return(existing, nil).Once()
	f.api.On("Request", mock.Anything).Return(&tgbot.APIResponse{}, nil).Once()
	f.expectSends(1)

	f.bot.handleCallbackQuery(tgbot.Update{
		CallbackQuery: &tgbot.CallbackQuery{
			ID:      gofakeit.UUID(),
			From:    &tgbot.User{ID: f.adminID},
			Message: &tgbot.Message{Chat: &tgbot.Chat{ID: f.adminID}},
			Data:    askDelPrefix + existing.ID,
		},
	})

	assert.Contains(t, f.sent(t)[0].Text, "Tem certeza")
	f.sched.AssertNotCalled(t, "RequestDelete", mock.Anything)
}

func TestTgBot_callbackFromOtherUserIgnored(t *testing.T) {
	f := newFixture()
	f.api.On("Request", mock.Anything).Return(&tgbot.APIResponse{}, nil).Once()

	f.bot.handleCallbackQuery(tgbot.Update{
		CallbackQuery: &tgbot.CallbackQuery{
			ID:      gofakeit.UUID(),
			From:    &tgbot.User{ID: f.adminID + 1},
			Message: &tgbot.Message{Chat: &tgbot.Chat{ID: f.adminID + 1}},
			Data:    deletePrefix + gofakeit.UUID(),
		},
	})

	f.sched.AssertNotCalled(t, "RequestDelete", mock.Anything)
	f.api.AssertNotCalled(t, "Send", mock.Anything)
}
