package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"rehearsal_scheduler/configs"
	"rehearsal_scheduler/internal/booking"
	"rehearsal_scheduler/internal/logger"
	"rehearsal_scheduler/internal/platform/calendar"
	"rehearsal_scheduler/internal/platform/telegram"
	"rehearsal_scheduler/internal/scheduler"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const usage = "usage: scheduler [add|update|delete|list|select|bot|export-calendar] [flags]"

// errAborted marks a command the user declined to confirm.
var errAborted = errors.New("aborted")

// plainError is printed as is instead of being turned into a booking reason.
type plainError struct{ error }

func plain(err error) error {
	if err == nil {
		return nil
	}
	return plainError{err}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.SetupLogger(cfg.LogLevel)

	svc, err := scheduler.Open(booking.DefaultDataFile)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open data file")
	}
	if loadErr := svc.LoadError(); loadErr != nil {
		fmt.Fprintln(os.Stderr, scheduler.Reason(loadErr))
	}

	if err := run(cfg, svc, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		var pErr plainError
		switch {
		case errors.Is(err, errAborted):
			fmt.Fprintln(os.Stderr, "Operação cancelada.")
		case errors.As(err, &pErr):
			fmt.Fprintln(os.Stderr, pErr.error)
		default:
			fmt.Fprintln(os.Stderr, scheduler.Reason(err))
		}
		os.Exit(1)
	}
}

func run(cfg *configs.Config, svc *scheduler.Service, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "add":
		return addCmd(svc, args, out)
	case "update":
		return updateCmd(svc, args, out)
	case "delete":
		return deleteCmd(svc, args, out)
	case "list":
		return listCmd(svc, args, out)
	case "select":
		return selectCmd(svc, args, out)
	case "bot":
		return botCmd(cfg, svc)
	case "export-calendar":
		return exportCmd(cfg, svc, args, out)
	default:
		return plain(fmt.Errorf("unknown command %q\n%s", cmd, usage))
	}
}

// bookingFlags registers one flag per booking field on fs.
func bookingFlags(fs *flag.FlagSet) func() booking.Raw {
	band := fs.String("band", "", "nome da banda")
	contact := fs.String("contact", "", "responsável")
	date := fs.String("date", "", "data (DD/MM/AAAA)")
	start := fs.String("start", "", "horário de entrada (HH:MM)")
	end := fs.String("end", "", "horário de saída (HH:MM)")
	price := fs.String("price", "", "valor cobrado (ex: 80,00)")
	status := fs.String("status", string(booking.StatusPendente), "Pendente ou Pago")
	return func() booking.Raw {
		return booking.Raw{
			booking.FieldBandName:  *band,
			booking.FieldContact:   *contact,
			booking.FieldDate:      *date,
			booking.FieldStartTime: *start,
			booking.FieldEndTime:   *end,
			booking.FieldPrice:     *price,
			booking.FieldStatus:    *status,
		}
	}
}

func addCmd(svc *scheduler.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	raw := bookingFlags(fs)
	_ = fs.Parse(args)

	added, err := svc.SubmitNew(raw())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Ensaio agendado com sucesso! ID: %s\n", added.ID)
	return nil
}

func updateCmd(svc *scheduler.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "id do ensaio")
	raw := bookingFlags(fs)
	_ = fs.Parse(args)

	if *id == "" {
		return fmt.Errorf("%w: id", booking.ErrNotFound)
	}
	if _, err := svc.SubmitUpdate(*id, raw()); err != nil {
		return err
	}
	fmt.Fprintln(out, "Ensaio atualizado com sucesso!")
	return nil
}

func deleteCmd(svc *scheduler.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "id do ensaio")
	yes := fs.Bool("yes", false, "confirma a exclusão")
	_ = fs.Parse(args)

	existing, err := svc.Get(*id)
	if err != nil {
		return err
	}
	if !*yes {
		fmt.Fprintf(out, "Tem certeza que deseja excluir o ensaio da banda '%s'? Repita o comando com -yes.\n",
			existing.BandName)
		return errAborted
	}
	if _, err := svc.RequestDelete(*id); err != nil {
		return err
	}
	fmt.Fprintln(out, "Ensaio excluído com sucesso!")
	return nil
}

func listCmd(svc *scheduler.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	sortCol := fs.String("sort", booking.FieldDate, "coluna de ordenação ("+strings.Join(booking.Fields, ", ")+")")
	desc := fs.Bool("desc", false, "ordem decrescente")
	search := fs.String("search", "", "busca por banda, responsável ou data")
	_ = fs.Parse(args)

	items, err := svc.GetView(scheduler.ViewOptions{
		SortColumn:     *sortCol,
		SortDescending: *desc,
		Search:         *search,
	})
	if err != nil {
		return err
	}
	printTable(out, items)
	return nil
}

func selectCmd(svc *scheduler.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("select", flag.ExitOnError)
	raw := bookingFlags(fs)
	_ = fs.Parse(args)

	values := raw()
	row := make([]string, len(booking.Fields))
	for i, f := range booking.Fields {
		row[i] = values[f]
	}
	id, err := svc.SelectByDisplayedValues(row)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, id)
	return nil
}

func botCmd(cfg *configs.Config, svc *scheduler.Service) error {
	if err := cfg.RequireBot(); err != nil {
		return plain(err)
	}
	botApi, err := tgbot.NewBotAPI(cfg.Token)
	if err != nil {
		return plain(fmt.Errorf("unable to start telegram bot: %w", err))
	}
	botApi.Debug = logrus.IsLevelEnabled(logrus.DebugLevel)
	logrus.WithField("account", botApi.Self.UserName).Info("Telegram bot authorized")

	telegram.NewBot(botApi, cfg.AdminID, svc).Start()
	return nil
}

func exportCmd(cfg *configs.Config, svc *scheduler.Service, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export-calendar", flag.ExitOnError)
	search := fs.String("search", "", "exporta apenas os ensaios encontrados pela busca")
	_ = fs.Parse(args)

	if err := cfg.RequireCalendar(); err != nil {
		return plain(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter, err := calendar.NewExporter(ctx, cfg.Credentials, cfg.CalendarID, cfg.TimeZone)
	if err != nil {
		return plain(err)
	}
	items, err := svc.GetView(scheduler.ViewOptions{SortColumn: booking.FieldDate, Search: *search})
	if err != nil {
		return err
	}
	n, err := exporter.Export(ctx, items)
	fmt.Fprintf(out, "%d de %d ensaios exportados para o calendário.\n", n, len(items))
	return plain(err)
}

func printTable(out io.Writer, items []booking.Booking) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	headers := make([]string, 0, len(booking.Fields)+1)
	headers = append(headers, "ID")
	for _, f := range booking.Fields {
		headers = append(headers, scheduler.ColumnTitles[f])
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, b := range items {
		fmt.Fprintln(w, b.ID+"\t"+strings.Join(b.Row(), "\t"))
	}
	_ = w.Flush()
}
