// Command sl is a CLI client for the studylife API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const usageText = `sl CLI
Usage:
  sl [-server URL] [-insecure] <cmd> [args]

Commands:
  version
  signup    -e <email> -p <password> -n <full name> [-course <course>]
  login     -e <email> -p <password>                (saves token)
  logout
  me
  notes
  note-add  -title <title> [-desc <text>] [-color #rrggbb] [-star]
  note-star -id <uuid>
  note-rm   -id <uuid>
  quizzes
  quiz      -id <uuid>
  submit    -id <uuid> (-a qid=a,qid=b | -file answers.yaml)
  progress
  stats
`

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches one subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// global flags
	gf := flag.NewFlagSet("sl", flag.ContinueOnError)
	gf.SetOutput(stderr)
	server := gf.String("server", envOr("STUDYLIFE_SERVER", "http://localhost:8000"), "server base URL")
	insecure := gf.Bool("insecure", false, "skip cert verify (dev)")
	gf.Usage = func() { fmt.Fprint(stderr, usageText) }
	if err := gf.Parse(args); err != nil || gf.NArg() < 1 {
		gf.Usage()
		return 2
	}
	cmd, rest := gf.Arg(0), gf.Args()[1:]
	cli := newClient(*server, *insecure)

	fail := func(err error) int {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	authed := func() error {
		tok, err := loadToken(cli.base)
		if err != nil {
			return err
		}
		cli.token = tok
		return nil
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "sl %s (%s)\n", version, buildDate)

	case "signup":
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		n := fs.String("n", "", "full name")
		course := fs.String("course", "", "course")
		if fs.Parse(rest) != nil {
			return 2
		}
		if *e == "" || *p == "" || *n == "" {
			fmt.Fprintln(stderr, "need -e, -p and -n")
			return 2
		}
		acc, err := cli.Signup(ctx, *e, *p, *n, *course)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, acc.ID)

	case "login":
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		if fs.Parse(rest) != nil {
			return 2
		}
		if *e == "" || *p == "" {
			fmt.Fprintln(stderr, "need -e and -p")
			return 2
		}
		tok, err := cli.Login(ctx, *e, *p)
		if err != nil {
			return fail(err)
		}
		if err := saveToken(cli.base, tok.AccessToken, tok.ExpiresAt); err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, "ok")

	case "logout":
		if err := clearToken(); err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, "ok")

	case "me":
		if err := authed(); err != nil {
			return fail(err)
		}
		acc, err := cli.Me(ctx)
		if err != nil {
			return fail(err)
		}
		printJSON(stdout, acc)

	case "notes":
		if err := authed(); err != nil {
			return fail(err)
		}
		ns, err := cli.Notes(ctx)
		if err != nil {
			return fail(err)
		}
		printJSON(stdout, ns)

	case "note-add":
		title := fs.String("title", "", "title")
		desc := fs.String("desc", "", "description")
		color := fs.String("color", "", "hex color")
		star := fs.Bool("star", false, "starred")
		if fs.Parse(rest) != nil {
			return 2
		}
		if err := authed(); err != nil {
			return fail(err)
		}
		n, err := cli.AddNote(ctx, *title, *desc, *color, *star)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintln(stdout, n.ID)

	case "note-star", "note-rm":
		id := fs.String("id", "", "note id")
		if fs.Parse(rest) != nil {
			return 2
		}
		if *id == "" {
			fmt.Fprintln(stderr, "need -id")
			return 2
		}
		if err := authed(); err != nil {
			return fail(err)
		}
		if cmd == "note-rm" {
			if err := cli.DeleteNote(ctx, *id); err != nil {
				return fail(err)
			}
			fmt.Fprintln(stdout, "ok")
			return 0
		}
		n, err := cli.StarNote(ctx, *id)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(stdout, "starred=%v\n", n.IsStarred)

	case "quizzes":
		qs, err := cli.Quizzes(ctx)
		if err != nil {
			return fail(err)
		}
		printJSON(stdout, qs)

	case "quiz":
		id := fs.String("id", "", "quiz id")
		if fs.Parse(rest) != nil {
			return 2
		}
		q, err := cli.Quiz(ctx, *id)
		if err != nil {
			return fail(err)
		}
		printJSON(stdout, q)

	case "submit":
		id := fs.String("id", "", "quiz id")
		inline := fs.String("a", "", "answers as qid=choice pairs, comma-separated")
		file := fs.String("file", "", "YAML file mapping question id to choice (- for stdin)")
		if fs.Parse(rest) != nil {
			return 2
		}
		answers, err := loadAnswers(*inline, *file)
		if err != nil {
			return fail(err)
		}
		if err := authed(); err != nil {
			return fail(err)
		}
		p, err := cli.Submit(ctx, *id, answers)
		if err != nil {
			return fail(err)
		}
		printJSON(stdout, p)

	case "progress":
		if err := authed(); err != nil {
			return fail(err)
		}
		ps, err := cli.Progress(ctx)
		if err != nil {
			return fail(err)
		}
		printJSON(stdout, ps)

	case "stats":
		if err := authed(); err != nil {
			return fail(err)
		}
		st, err := cli.Stats(ctx)
		if err != nil {
			return fail(err)
		}
		printJSON(stdout, st)

	default:
		gf.Usage()
		return 2
	}
	return 0
}

// ---- utils ----

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// loadAnswers reads "qid=a,qid=b" or a YAML mapping file.
func loadAnswers(inline, file string) (map[string]string, error) {
	switch {
	case inline != "" && file != "":
		return nil, errors.New("use either -a or -file")
	case inline != "":
		out := map[string]string{}
		for _, pair := range strings.Split(inline, ",") {
			k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok || k == "" || v == "" {
				return nil, fmt.Errorf("bad answer %q, want qid=choice", pair)
			}
			out[strings.TrimSpace(k)] = strings.ToLower(strings.TrimSpace(v))
		}
		return out, nil
	case file != "":
		var b []byte
		var err error
		if file == "-" {
			b, err = io.ReadAll(os.Stdin)
		} else {
			b, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, err
		}
		out := map[string]string{}
		if err := yaml.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		return out, nil
	default:
		return nil, errors.New("need -a or -file")
	}
}
