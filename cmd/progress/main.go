// Command progress is the client side of the graduation tracker: it keeps a
// device-local requirement list and evaluates it against the course list
// fetched from the API.
//
// Usage:
//
//	progress [-f file] add <tag> <credits>   add or update a requirement
//	progress [-f file] remove <tag>          remove a requirement
//	progress [-f file] status                show progress per requirement
//
// The API endpoint and bearer token come from UNITRACK_API and
// UNITRACK_TOKEN.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aokihara/unitrack/credits"
	"github.com/aokihara/unitrack/requirements"
)

type coursesEnvelope struct {
	Success bool             `json:"success"`
	Data    []credits.Course `json:"data"`
}

func main() {
	filePath := flag.String("f", "", "requirements file (default ~/.unitrack/requirements.json)")
	flag.Parse()

	path := *filePath
	if path == "" {
		var err error
		path, err = requirements.DefaultPath()
		if err != nil {
			fatalf("resolve requirements path: %v", err)
		}
	}
	repo := requirements.NewFileRepository(path)

	args := flag.Args()
	command := "status"
	if len(args) > 0 {
		command = args[0]
	}

	switch command {
	case "add":
		if len(args) != 3 {
			fatalf("usage: progress add <tag> <credits>")
		}
		if err := runAdd(repo, args[1], args[2], os.Stdout); err != nil {
			fatalf("%v", err)
		}

	case "remove":
		if len(args) != 2 {
			fatalf("usage: progress remove <tag>")
		}
		if err := runRemove(repo, args[1], os.Stdout); err != nil {
			fatalf("%v", err)
		}

	case "status":
		if err := runStatus(repo, fetchCourses, os.Stdout); err != nil {
			fatalf("%v", err)
		}

	default:
		fatalf("unknown command %q", command)
	}
}

// runAdd validates the tag and threshold itself before delegating to
// Upsert: Upsert signals rejection by returning the list unchanged, which is
// indistinguishable from re-adding an entry with its current value.
func runAdd(repo requirements.Repository, tag, rawCredits string, out io.Writer) error {
	required, err := strconv.ParseFloat(rawCredits, 64)
	if err != nil || required <= 0 {
		return fmt.Errorf("credits must be a positive number")
	}

	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("tag name must not be empty")
	}

	list, err := repo.Load()
	if err != nil {
		return fmt.Errorf("load requirements: %w", err)
	}

	if err := repo.Save(requirements.Upsert(list, tag, required)); err != nil {
		return fmt.Errorf("save requirements: %w", err)
	}

	fmt.Fprintf(out, "requirement %q set to %v credits\n", tag, required)
	return nil
}

func runRemove(repo requirements.Repository, tag string, out io.Writer) error {
	list, err := repo.Load()
	if err != nil {
		return fmt.Errorf("load requirements: %w", err)
	}

	if err := repo.Save(requirements.Remove(list, tag)); err != nil {
		return fmt.Errorf("save requirements: %w", err)
	}

	fmt.Fprintf(out, "requirement %q removed\n", tag)
	return nil
}

func runStatus(repo requirements.Repository, fetch func() ([]credits.Course, error), out io.Writer) error {
	list, err := repo.Load()
	if err != nil {
		return fmt.Errorf("load requirements: %w", err)
	}

	if len(list) == 0 {
		fmt.Fprintln(out, "no requirements configured; add one with: progress add <tag> <credits>")
		return nil
	}

	courses, err := fetch()
	if err != nil {
		return fmt.Errorf("could not fetch courses: %w", err)
	}

	totals := credits.TotalsByTag(courses)
	for _, status := range requirements.Evaluate(list, totals) {
		verdict := "short"
		if status.Satisfied {
			verdict = "OK"
		}
		fmt.Fprintf(out, "%-20s %6.1f / %-6.1f %s\n", status.Tag, status.Current, status.Required, verdict)
	}
	return nil
}

func fetchCourses() ([]credits.Course, error) {
	baseURL := os.Getenv("UNITRACK_API")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	token := os.Getenv("UNITRACK_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("UNITRACK_TOKEN is not set")
	}

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/courses", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var envelope coursesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode course list: %w", err)
	}
	return envelope.Data, nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
