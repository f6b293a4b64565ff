package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"yardgate/internal"
	"yardgate/internal/commands"
	"yardgate/internal/config"
	"yardgate/internal/directory"
	"yardgate/internal/ledger"
	"yardgate/internal/logging"
	"yardgate/internal/pipeline"
	"yardgate/internal/rules"
	"yardgate/internal/storage"
	"yardgate/internal/watcher"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	must(err)
	defer log.Sync()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	rb, err := rules.Load(cfg.RulebookPath)
	must(err)

	dir := directory.New(cfg.CustomerListPath)
	if err := dir.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: customer list not loaded: %v\n", err)
	}

	ldg := ledger.New(cfg.JobLedgerPath, cfg.JobPrefix)
	svc := pipeline.NewService(db, cfg, rb, dir, ldg, log)

	cmd := os.Args[1]
	switch cmd {
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", "", "manifest xlsx path")
		group := fs.String("group", "", "booking group name")
		body := fs.String("body", "", "message body, e.g. POSTPONE-25.12.2025")
		shipping := fs.Bool("shipping", false, "shipping-line channel: print only, no archive or reply")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*file) == "" {
			must(fmt.Errorf("--file is required"))
		}
		meta := internal.IntakeMeta{
			GroupName: *group,
			Body:      *body,
			SentAt:    time.Now(),
			Shipping:  *shipping,
		}
		outcome, err := svc.ProcessFile(*file, meta)
		must(err)
		if outcome.Reply != "" {
			fmt.Println(outcome.Reply)
		}
		if outcome.Accepted {
			fmt.Printf("accepted jobNo=%s customer=%s printJobs=%d archive=%s\n",
				outcome.JobNo, outcome.CustomerID, len(outcome.PrintPaths), outcome.ArchivePath)
		}

	case "watch":
		w := watcher.NewService(svc, cfg, log)
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		must(w.Run(ctx))

	case "jobno":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		customer := fs.String("customer", "", "customer id")
		name := fs.String("name", "", "customer name")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*customer) == "" {
			must(fmt.Errorf("--customer is required"))
		}
		jobNo, err := ldg.GetOrCreate(*customer, *name, time.Now())
		must(err)
		fmt.Println(jobNo)

	case "edit", "postpone", "create":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		group := fs.String("group", "", "booking group name, identifies the customer")
		body := fs.String("body", "", "command text as sent in the chat")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*group) == "" || strings.TrimSpace(*body) == "" {
			must(fmt.Errorf("--group and --body are required"))
		}
		h := commands.NewHandler(cfg, rb, dir, svc, log)
		reply, handled := h.Handle(*group, *body)
		if !handled {
			must(fmt.Errorf("not a recognized command: %s", *body))
		}
		fmt.Println(reply)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: yardgate <command>")
	fmt.Println("commands:")
	fmt.Println("  process --file=booking.xlsx [--group=...] [--body=...] [--shipping]")
	fmt.Println("  watch")
	fmt.Println("  jobno --customer=2318 [--name=...]")
	fmt.Println("  edit --group=... --body='@bot edit 123 -> 456'")
	fmt.Println("  postpone --group=... --body='@bot postpone 301 to 27.12.2025'")
	fmt.Println("  create --group=... --body='@bot create IMP, FCL, TH-LA, ...'")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
