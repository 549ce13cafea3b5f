// jobctl - консольный клиент портала вакансий.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ignatzorin/jobportal-backend/internal/client/api"
	"github.com/ignatzorin/jobportal-backend/internal/client/session"
	"github.com/ignatzorin/jobportal-backend/internal/client/store"
)

const usage = `Использование: jobctl [-server URL] <команда> [аргументы]

Команды:
  login -email E -password P      вход
  logout                          выход
  jobs [-page N -per-page N -search S -location L -type T]
  save <job-id>                   добавить или убрать вакансию из сохранённых
  apply -job ID [-cover TEXT] [-resume FILE]
  applications [-page N -per-page N]
  status <app-id> <STATUS> [-feedback TEXT]
  policy                          таблица статусов откликов
  notifications [-unread]         уведомления
`

var errUsage = errors.New("неверные аргументы")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("jobctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	server := global.String("server", envOr("JOBCTL_SERVER", "http://localhost:8080"), "адрес сервера")
	sessionPath := global.String("session", os.Getenv("JOBCTL_SESSION"), "файл сессии")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	path := *sessionPath
	if path == "" {
		var err error
		if path, err = session.DefaultPath("jobctl"); err != nil {
			fmt.Fprintf(stderr, "jobctl: %v\n", err)
			return 1
		}
	}

	sessions := session.NewFileStore(path)
	a := &app{
		client:   api.NewClient(*server, sessions, nil),
		sessions: sessions,
		state:    store.New(store.Initial(nil)),
		out:      stdout,
	}

	name, rest := global.Arg(0), global.Args()[1:]
	cmd, ok := a.commands()[name]
	if !ok {
		fmt.Fprintf(stderr, "jobctl: неизвестная команда %q\n", name)
		global.Usage()
		return 2
	}

	if err := cmd(ctx, rest); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			global.Usage()
			return 2
		}
		fmt.Fprintf(stderr, "jobctl: %v\n", err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
