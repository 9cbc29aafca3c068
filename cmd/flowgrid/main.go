// Command flowgrid is a CLI client for the FlowGrid service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "flowgrid")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "flowgrid")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- api client ----

type client struct {
	base  string
	token string
	http  *http.Client
}

func newClient(base, token string) *client {
	return &client{base: base, token: token, http: &http.Client{Timeout: 30 * time.Second}}
}

// do sends a JSON request and decodes the JSON response into out (if non-nil).
func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Message)
		}
		return errors.New(resp.Status)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func authedClient(base string) *client {
	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	return newClient(base, token)
}

func usage() {
	fmt.Fprintf(os.Stderr, `flowgrid CLI
Usage:
  flowgrid -addr URL <cmd> [args]

Commands:
  version
  register     -u <username> -e <email> -p <password>   (saves token)
  login        -u <username> -p <password>              (saves token)
  boards
  board-add    -title <title>
  board-rename -id <uuid> -title <title>
  board-rm     -id <uuid>
  lists        -board <uuid>
  list-add     -board <uuid> -title <title>
  list-rename  -id <uuid> -title <title>
  list-rm      -id <uuid>
  list-move    -id <uuid> -to <pos>
  cards        -list <uuid>
  card-add     -list <uuid> -title <title> [-desc <text>]
  card-edit    -id <uuid> -title <title> [-desc <text>]
  card-rm      -id <uuid>
  card-move    -id <uuid> -to <pos> [-list <uuid>]
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the REST API.
func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {

	case "version":
		fmt.Printf("flowgrid %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		u := fs.String("u", "", "username")
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *u == "" || *e == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u, -e and -p")
			os.Exit(1)
		}

		var resp tokenResponse
		body := map[string]string{"username": *u, "email": *e, "password": *p}
		if err := newClient(*addr, "").do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
			fail(err)
		}
		if err := saveToken(resp.Token, resp.ExpiresAt); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		u := fs.String("u", "", "username")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}

		var resp tokenResponse
		body := map[string]string{"username": *u, "password": *p}
		if err := newClient(*addr, "").do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
			fail(err)
		}
		if err := saveToken(resp.Token, resp.ExpiresAt); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "boards":
		var out []json.RawMessage
		if err := authedClient(*addr).do(ctx, http.MethodGet, "/api/boards", nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "board-add":
		fs := flag.NewFlagSet("board-add", flag.ExitOnError)
		title := fs.String("title", "", "board title")
		_ = fs.Parse(args)

		var out json.RawMessage
		if err := authedClient(*addr).do(ctx, http.MethodPost, "/api/boards",
			map[string]string{"title": *title}, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "board-rename":
		fs := flag.NewFlagSet("board-rename", flag.ExitOnError)
		id := fs.String("id", "", "board id")
		title := fs.String("title", "", "new title")
		_ = fs.Parse(args)

		if err := authedClient(*addr).do(ctx, http.MethodPut, "/api/boards/"+*id,
			map[string]string{"title": *title}, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "board-rm":
		fs := flag.NewFlagSet("board-rm", flag.ExitOnError)
		id := fs.String("id", "", "board id")
		_ = fs.Parse(args)

		if err := authedClient(*addr).do(ctx, http.MethodDelete, "/api/boards/"+*id, nil, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "lists":
		fs := flag.NewFlagSet("lists", flag.ExitOnError)
		board := fs.String("board", "", "board id")
		_ = fs.Parse(args)

		var out []json.RawMessage
		if err := authedClient(*addr).do(ctx, http.MethodGet, "/api/boards/"+*board+"/lists", nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "list-add":
		fs := flag.NewFlagSet("list-add", flag.ExitOnError)
		board := fs.String("board", "", "board id")
		title := fs.String("title", "", "list title")
		_ = fs.Parse(args)

		var out json.RawMessage
		if err := authedClient(*addr).do(ctx, http.MethodPost, "/api/boards/"+*board+"/lists",
			map[string]string{"title": *title}, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "list-rename":
		fs := flag.NewFlagSet("list-rename", flag.ExitOnError)
		id := fs.String("id", "", "list id")
		title := fs.String("title", "", "new title")
		_ = fs.Parse(args)

		if err := authedClient(*addr).do(ctx, http.MethodPut, "/api/lists/"+*id,
			map[string]string{"title": *title}, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "list-rm":
		fs := flag.NewFlagSet("list-rm", flag.ExitOnError)
		id := fs.String("id", "", "list id")
		_ = fs.Parse(args)

		if err := authedClient(*addr).do(ctx, http.MethodDelete, "/api/lists/"+*id, nil, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "list-move":
		fs := flag.NewFlagSet("list-move", flag.ExitOnError)
		id := fs.String("id", "", "list id")
		to := fs.Int("to", 0, "target position")
		_ = fs.Parse(args)

		if err := authedClient(*addr).do(ctx, http.MethodPut, "/api/lists/"+*id+"/move",
			map[string]int{"to": *to}, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "cards":
		fs := flag.NewFlagSet("cards", flag.ExitOnError)
		list := fs.String("list", "", "list id")
		_ = fs.Parse(args)

		var out []json.RawMessage
		if err := authedClient(*addr).do(ctx, http.MethodGet, "/api/lists/"+*list+"/cards", nil, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "card-add":
		fs := flag.NewFlagSet("card-add", flag.ExitOnError)
		list := fs.String("list", "", "list id")
		title := fs.String("title", "", "card title")
		desc := fs.String("desc", "", "card description")
		_ = fs.Parse(args)

		var out json.RawMessage
		if err := authedClient(*addr).do(ctx, http.MethodPost, "/api/lists/"+*list+"/cards",
			map[string]string{"title": *title, "description": *desc}, &out); err != nil {
			fail(err)
		}
		printJSON(out)

	case "card-edit":
		fs := flag.NewFlagSet("card-edit", flag.ExitOnError)
		id := fs.String("id", "", "card id")
		title := fs.String("title", "", "card title")
		desc := fs.String("desc", "", "card description")
		_ = fs.Parse(args)

		if err := authedClient(*addr).do(ctx, http.MethodPut, "/api/cards/"+*id,
			map[string]string{"title": *title, "description": *desc}, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "card-rm":
		fs := flag.NewFlagSet("card-rm", flag.ExitOnError)
		id := fs.String("id", "", "card id")
		_ = fs.Parse(args)

		if err := authedClient(*addr).do(ctx, http.MethodDelete, "/api/cards/"+*id, nil, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "card-move":
		fs := flag.NewFlagSet("card-move", flag.ExitOnError)
		id := fs.String("id", "", "card id")
		to := fs.Int("to", 0, "target position")
		list := fs.String("list", "", "target list id (cross-list move)")
		_ = fs.Parse(args)

		body := map[string]any{"to": *to}
		if *list != "" {
			body["listId"] = *list
		}
		if err := authedClient(*addr).do(ctx, http.MethodPut, "/api/cards/"+*id+"/move", body, nil); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}
