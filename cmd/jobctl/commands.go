package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/client/api"
	"github.com/ignatzorin/jobportal-backend/internal/client/session"
	"github.com/ignatzorin/jobportal-backend/internal/client/statusflow"
	"github.com/ignatzorin/jobportal-backend/internal/client/store"
	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pagination"
)

type command func(ctx context.Context, args []string) error

type app struct {
	client   *api.Client
	sessions *session.FileStore
	state    *store.Store
	out      io.Writer
}

func (a *app) commands() map[string]command {
	return map[string]command{
		"login":         a.login,
		"logout":        a.logout,
		"jobs":          a.jobs,
		"save":          a.save,
		"apply":         a.apply,
		"applications":  a.applications,
		"status":        a.status,
		"policy":        a.policy,
		"notifications": a.notifications,
	}
}

// parseInterleaved разбирает флаги, стоящие как до, так и после позиционных аргументов.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", os.Getenv("JOBCTL_PASSWORD"), "пароль")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errUsage
	}

	a.state.Dispatch(store.Action{Type: store.LoginPending})
	resp, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		st := a.state.Dispatch(store.Action{Type: store.LoginRejected, Error: err.Error()})
		return fmt.Errorf("%s", st.Auth.Error)
	}

	st := a.state.Dispatch(store.Action{Type: store.LoginFulfilled, User: &resp.User})
	fmt.Fprintf(a.out, "%s: %s (%s)\n", st.Auth.SuccessMessage, st.Auth.User.Name, st.Auth.User.Role)
	return nil
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Вы вышли из системы")
	return nil
}

func (a *app) jobs(ctx context.Context, args []string) error {
	fs := newFlagSet("jobs")
	var q api.JobQuery
	fs.IntVar(&q.Page, "page", 1, "страница")
	fs.IntVar(&q.PerPage, "per-page", 10, "вакансий на странице")
	fs.StringVar(&q.Search, "search", "", "поиск")
	fs.StringVar(&q.Location, "location", "", "город")
	fs.StringVar(&q.Type, "type", "", "тип занятости")
	if err := fs.Parse(args); err != nil {
		return err
	}

	page, err := a.client.ListJobs(ctx, q)
	if err != nil {
		return err
	}

	saved, err := a.savedSet()
	if err != nil {
		return err
	}
	for _, job := range page.Items {
		mark := " "
		if saved[job.ID] {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s, %s (%s)\n", mark, job.ID, job.Title, job.Company, job.Location)
	}
	printPageFooter(a.out, page.CurrentPage, page.TotalPages, page.TotalItems)
	return nil
}

func (a *app) savedSet() (map[uuid.UUID]bool, error) {
	ids, err := a.sessions.SavedJobs()
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (a *app) save(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("некорректный id вакансии: %w", err)
	}

	saved, err := a.sessions.ToggleSaved(jobID)
	if err != nil {
		return err
	}

	// Серверная копия нужна только соискателю с активной сессией.
	if s, ok, _ := a.sessions.Get(); ok && s.Role == models.RoleJobSeeker {
		if saved {
			err = a.client.SaveJob(ctx, jobID)
		} else {
			err = a.client.UnsaveJob(ctx, jobID)
		}
		if err != nil {
			if _, rollbackErr := a.sessions.ToggleSaved(jobID); rollbackErr != nil {
				return fmt.Errorf("%v (не удалось откатить локальное состояние: %v)", err, rollbackErr)
			}
			return err
		}
	}

	if saved {
		fmt.Fprintln(a.out, "Вакансия сохранена")
	} else {
		fmt.Fprintln(a.out, "Вакансия удалена из сохранённых")
	}
	return nil
}

func (a *app) apply(ctx context.Context, args []string) error {
	fs := newFlagSet("apply")
	job := fs.String("job", "", "id вакансии")
	cover := fs.String("cover", "", "сопроводительное письмо")
	resume := fs.String("resume", "", "файл резюме")
	if err := fs.Parse(args); err != nil {
		return err
	}
	jobID, err := uuid.Parse(*job)
	if err != nil {
		return errUsage
	}

	in := api.SubmitApplicationInput{JobID: jobID, CoverLetter: *cover}
	if *resume != "" {
		f, err := os.Open(*resume)
		if err != nil {
			return fmt.Errorf("открытие резюме: %w", err)
		}
		defer f.Close()
		in.Resume = f
		in.ResumeName = filepath.Base(*resume)
	}

	created, err := a.client.SubmitApplication(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Отклик %s отправлен, статус %s\n", created.ID, created.Status.Label())
	return nil
}

func (a *app) applications(ctx context.Context, args []string) error {
	fs := newFlagSet("applications")
	page := fs.Int("page", 1, "страница")
	perPage := fs.Int("per-page", 10, "откликов на странице")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := a.client.MyApplications(ctx)
	if err != nil {
		return err
	}

	state, err := pagination.New(items, *perPage, nil)
	if err != nil {
		return fmt.Errorf("%s", statusflow.DisplayMessage(err))
	}
	p := state.ChangePage(*page)
	for _, item := range p.Items {
		fmt.Fprintf(a.out, "%s  %s, %s  [%s]\n", item.ID, item.JobTitle, item.Company, item.Status.Label())
	}
	printPageFooter(a.out, p.CurrentPage, p.TotalPages, p.TotalItems)
	return nil
}

func (a *app) status(ctx context.Context, args []string) error {
	fs := newFlagSet("status")
	feedback := fs.String("feedback", "", "комментарий")
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return errUsage
	}

	id, err := uuid.Parse(positional[0])
	if err != nil {
		return fmt.Errorf("некорректный id отклика: %w", err)
	}
	target, err := valueobject.ParseApplicationStatus(positional[1])
	if err != nil {
		return fmt.Errorf("%s", statusflow.DisplayMessage(err))
	}

	current, err := a.client.GetApplication(ctx, id)
	if err != nil {
		return err
	}

	p := statusflow.NewPresenter(current.Status, statusflow.CommitFor(a.client, id))
	p.Select(target)
	p.SetFeedback(*feedback)
	if err := p.Propose(ctx); err != nil {
		msg := statusflow.DisplayMessage(err)
		if opts := p.Options(); len(opts) > 0 {
			labels := make([]string, 0, len(opts))
			for _, o := range opts {
				labels = append(labels, string(o.State))
			}
			msg += ". Доступно: " + strings.Join(labels, ", ")
		}
		return fmt.Errorf("%s", msg)
	}

	fmt.Fprintf(a.out, "Статус изменён: %s -> %s\n", current.Status.Label(), p.Current().Label())
	return nil
}

func (a *app) policy(ctx context.Context, _ []string) error {
	entries, err := a.client.StatusConfig(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		next := make([]string, 0, len(e.AllowedNext))
		for _, s := range e.AllowedNext {
			next = append(next, string(s))
		}
		feedback := ""
		if e.FeedbackRequired {
			feedback = " (нужен комментарий)"
		}
		fmt.Fprintf(a.out, "%-12s %s%s -> [%s]\n", e.State, e.Label, feedback, strings.Join(next, ", "))
	}
	return nil
}

func (a *app) notifications(ctx context.Context, args []string) error {
	fs := newFlagSet("notifications")
	unread := fs.Bool("unread", false, "только непрочитанные")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.state.Dispatch(store.Action{Type: store.FetchNotificationsPending})
	items, err := a.client.ListNotifications(ctx, *unread)
	if err != nil {
		st := a.state.Dispatch(store.Action{Type: store.FetchNotificationsRejected, Error: err.Error()})
		return fmt.Errorf("%s", st.Notifications.Error)
	}
	st := a.state.Dispatch(store.Action{Type: store.FetchNotificationsFulfilled, Notifications: items})

	for _, n := range st.Notifications.Items {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %-12s %s\n", mark, n.CreatedAt.Format("2006-01-02 15:04"), n.Category, n.Payload)
	}
	c := st.Notifications.Categories
	fmt.Fprintf(a.out, "Непрочитанных: %d (вакансии %d, отклики %d, сообщения %d, система %d)\n",
		st.Notifications.UnreadCount, c.JobMatches, c.Applications, c.Messages, c.System)
	return nil
}

func printPageFooter(w io.Writer, current, total, items int) {
	fmt.Fprintf(w, "Страница %d из %d, всего %d\n", current, total, items)
}
