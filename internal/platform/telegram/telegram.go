package telegram

import (
	"fmt"
	"strings"

	"rehearsal_scheduler/internal/booking"
	"rehearsal_scheduler/internal/scheduler"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	confirmWord    = "sim"
	askDelPrefix   = "askdel_"
	deletePrefix   = "delete_"
	payPrefix      = "pay_"
	argSeparator   = ";"
	descendingWord = "desc"
)

const fieldsUsage = "Informe os 7 campos separados por ';': banda;responsável;data;entrada;saída;valor;status"

const helpText = `Comandos disponíveis:
/list [coluna] [desc] - lista os ensaios (padrão: por data)
/search <texto> - busca por banda, responsável ou data
/add banda;responsável;data;entrada;saída;valor;status
/update <id>;banda;responsável;data;entrada;saída;valor;status
/pay <id> - marca o ensaio como pago
/delete <id> sim - exclui o ensaio

Colunas: band_name, contact, date, start_time, end_time, price, status`

type BotAPI interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	Request(c tgbot.Chattable) (*tgbot.APIResponse, error)
	GetUpdatesChan(config tgbot.UpdateConfig) tgbot.UpdatesChannel
}

// Scheduler is the part of scheduler.Service the bot drives.
type Scheduler interface {
	SubmitNew(raw booking.Raw) (booking.Booking, error)
	SubmitUpdate(id string, raw booking.Raw) (booking.Booking, error)
	SetStatus(id string, status booking.Status) (booking.Booking, error)
	RequestDelete(id string) (booking.Booking, error)
	Get(id string) (booking.Booking, error)
	GetView(opts scheduler.ViewOptions) ([]booking.Booking, error)
}

type TgBot struct {
	api     BotAPI
	adminID int64
	sched   Scheduler
}

func NewBot(api BotAPI, adminID int64, sched Scheduler) *TgBot {
	return &TgBot{
		api:     api,
		adminID: adminID,
		sched:   sched,
	}
}

func (b *TgBot) Start() {
	u := tgbot.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			go b.processUpdate(update)
		} else if update.CallbackQuery != nil {
			go b.handleCallbackQuery(update)
		}
	}
}

func (b *TgBot) processUpdate(update tgbot.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if !b.allowed(update.Message.From) {
		logrus.WithField("chatID", chatID).Warn("Message from unknown user refused")
		b.sendMessage(chatID, "Este bot é de uso exclusivo do estúdio.")
		return
	}

	if !update.Message.IsCommand() {
		b.sendMessage(chatID, "Use /help para ver os comandos disponíveis.")
		return
	}

	args := strings.TrimSpace(update.Message.CommandArguments())
	switch update.Message.Command() {
	case "start", "help":
		b.sendMessage(chatID, helpText)
	case "list":
		b.handleList(chatID, args)
	case "search":
		b.handleSearch(chatID, args)
	case "add":
		b.handleAdd(chatID, args)
	case "update":
		b.handleUpdate(chatID, args)
	case "pay":
		b.handlePay(chatID, args)
	case "delete":
		b.handleDelete(chatID, args)
	default:
		b.sendMessage(chatID, "Comando desconhecido. Use /help para ver os comandos disponíveis.")
	}
}

func (b *TgBot) handleCallbackQuery(update tgbot.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := tgbot.NewCallback(update.CallbackQuery.ID, "")
	if _, err := b.api.Request(callback); err != nil {
		logrus.WithError(err).Error("Failed to send callback request")
	}

	chatID := update.CallbackQuery.Message.Chat.ID
	if !b.allowed(update.CallbackQuery.From) {
		logrus.WithField("chatID", chatID).Warn("Callback from unknown user refused")
		return
	}

	data := update.CallbackQuery.Data
	switch {
	case strings.HasPrefix(data, askDelPrefix):
		b.handleDelete(chatID, strings.TrimPrefix(data, askDelPrefix))
	case strings.HasPrefix(data, deletePrefix):
		b.deleteBooking(chatID, strings.TrimPrefix(data, deletePrefix))
	case strings.HasPrefix(data, payPrefix):
		b.handlePay(chatID, strings.TrimPrefix(data, payPrefix))
	default:
		b.sendMessage(chatID, "Ação desconhecida.")
	}
}

func (b *TgBot) allowed(from *tgbot.User) bool {
	return from != nil && from.ID == b.adminID
}

func (b *TgBot) handleList(chatID int64, args string) {
	opts := scheduler.ViewOptions{SortColumn: booking.FieldDate}
	fields := strings.Fields(args)
	if len(fields) > 0 {
		if !booking.IsColumn(fields[0]) {
			b.sendMessage(chatID, fmt.Sprintf("Coluna desconhecida: %s", fields[0]))
			return
		}
		opts.SortColumn = fields[0]
	}
	if len(fields) > 1 && strings.EqualFold(fields[1], descendingWord) {
		opts.SortDescending = true
	}
	b.sendView(chatID, opts)
}

func (b *TgBot) handleSearch(chatID int64, args string) {
	if args == "" {
		b.sendMessage(chatID, "Informe o texto da busca: /search <texto>")
		return
	}
	b.sendView(chatID, scheduler.ViewOptions{Search: args})
}

func (b *TgBot) sendView(chatID int64, opts scheduler.ViewOptions) {
	items, err := b.sched.GetView(opts)
	if err != nil {
		b.sendMessage(chatID, scheduler.Reason(err))
		return
	}
	if len(items) == 0 {
		b.sendMessage(chatID, "Nenhum ensaio encontrado.")
		return
	}

	for _, item := range items {
		msg := tgbot.NewMessage(chatID, formatBooking(item))
		buttons := []tgbot.InlineKeyboardButton{
			tgbot.NewInlineKeyboardButtonData("Excluir", askDelPrefix+item.ID),
		}
		if !item.Paid() {
			buttons = append([]tgbot.InlineKeyboardButton{
				tgbot.NewInlineKeyboardButtonData("Marcar como pago", payPrefix+item.ID),
			}, buttons...)
		}
		msg.ReplyMarkup = tgbot.NewInlineKeyboardMarkup(tgbot.NewInlineKeyboardRow(buttons...))
		if _, err := b.api.Send(msg); err != nil {
			logrus.WithError(err).WithField("chatID", chatID).Error("Failed to send message")
		}
	}
}

func (b *TgBot) handleAdd(chatID int64, args string) {
	raw, ok := parseRaw(args)
	if !ok {
		b.sendMessage(chatID, fieldsUsage)
		return
	}
	added, err := b.sched.SubmitNew(raw)
	if err != nil {
		b.sendMessage(chatID, scheduler.Reason(err))
		return
	}
	b.sendMessage(chatID, "Ensaio agendado com sucesso!\n\n"+formatBooking(added))
}

func (b *TgBot) handleUpdate(chatID int64, args string) {
	id, rest, found := strings.Cut(args, argSeparator)
	id = strings.TrimSpace(id)
	if !found || id == "" {
		b.sendMessage(chatID, "Use: /update <id>;banda;responsável;data;entrada;saída;valor;status")
		return
	}
	raw, ok := parseRaw(rest)
	if !ok {
		b.sendMessage(chatID, fieldsUsage)
		return
	}
	updated, err := b.sched.SubmitUpdate(id, raw)
	if err != nil {
		b.sendMessage(chatID, scheduler.Reason(err))
		return
	}
	b.sendMessage(chatID, "Ensaio atualizado com sucesso!\n\n"+formatBooking(updated))
}

func (b *TgBot) handlePay(chatID int64, args string) {
	id := strings.TrimSpace(args)
	if id == "" {
		b.sendMessage(chatID, "Use: /pay <id>")
		return
	}
	paid, err := b.sched.SetStatus(id, booking.StatusPago)
	if err != nil {
		b.sendMessage(chatID, scheduler.Reason(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("Pagamento da banda '%s' registrado.", paid.BandName))
}

// handleDelete removes the booking when the command carries the confirmation
// word and otherwise asks for it with an inline button.
func (b *TgBot) handleDelete(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		b.sendMessage(chatID, "Use: /delete <id> sim")
		return
	}
	id := fields[0]
	if len(fields) > 1 && strings.EqualFold(fields[1], confirmWord) {
		b.deleteBooking(chatID, id)
		return
	}

	existing, err := b.sched.Get(id)
	if err != nil {
		b.sendMessage(chatID, scheduler.Reason(err))
		return
	}
	msg := tgbot.NewMessage(chatID,
		fmt.Sprintf("Tem certeza que deseja excluir o ensaio da banda '%s'?", existing.BandName))
	msg.ReplyMarkup = tgbot.NewInlineKeyboardMarkup(
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData("Sim, excluir", deletePrefix+id),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		logrus.WithError(err).WithField("chatID", chatID).Error("Failed to send message")
	}
}

func (b *TgBot) deleteBooking(chatID int64, id string) {
	removed, err := b.sched.RequestDelete(id)
	if err != nil {
		b.sendMessage(chatID, scheduler.Reason(err))
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("Ensaio da banda '%s' excluído.", removed.BandName))
}

func (b *TgBot) sendMessage(chatID int64, text string) {
	msg := tgbot.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logrus.WithError(err).WithField("chatID", chatID).Error("Failed to send message")
	}
}

// parseRaw splits "banda;responsável;data;entrada;saída;valor;status".
func parseRaw(args string) (booking.Raw, bool) {
	parts := strings.Split(args, argSeparator)
	if len(parts) != len(booking.Fields) {
		return nil, false
	}
	raw := make(booking.Raw, len(booking.Fields))
	for i, f := range booking.Fields {
		raw[f] = strings.TrimSpace(parts[i])
	}
	return raw, true
}

func formatBooking(b booking.Booking) string {
	status := "pendente"
	if b.Paid() {
		status = "pago"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", scheduler.ColumnTitles[booking.FieldBandName], b.BandName)
	fmt.Fprintf(&sb, "%s: %s\n", scheduler.ColumnTitles[booking.FieldContact], b.Contact)
	fmt.Fprintf(&sb, "%s: %s %s-%s\n", scheduler.ColumnTitles[booking.FieldDate], b.Date, b.StartTime, b.EndTime)
	fmt.Fprintf(&sb, "%s: %s\n", scheduler.ColumnTitles[booking.FieldPrice], b.Price)
	fmt.Fprintf(&sb, "%s: %s\n", scheduler.ColumnTitles[booking.FieldStatus], status)
	fmt.Fprintf(&sb, "ID: %s", b.ID)
	return sb.String()
}
