package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	c := newClient(getAPIURL(), loadToken())
	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "auth":
		err = handleAuth(c, args)
	case "project":
		err = handleProject(c, args)
	case "tagtype":
		err = handleTagType(c, args)
	case "tagvalue":
		err = handleTagValue(c, args)
	case "tag":
		err = handleTag(c, args)
	case "validation":
		err = handleValidation(c, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

// client talks JSON to the projectmatch API
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(baseURL, token string) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// apiError is a non-2xx response
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Body)
}

// do sends payload (if any) as JSON and decodes a 2xx response into out (if any)
func (c *client) do(method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
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

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// message runs a mutation and prints the server's confirmation
func (c *client) message(method, path string, payload any) error {
	var result struct {
		Message string `json:"message"`
	}
	if err := c.do(method, path, payload, &result); err != nil {
		return err
	}
	fmt.Printf("✓ %s\n", result.Message)
	return nil
}

func handleAuth(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: projectmatch auth <signup|login|logout|who>")
		return nil
	}

	switch args[0] {
	case "signup":
		return signup(c, args[1:])
	case "login":
		return login(c, args[1:])
	case "logout":
		os.Remove(tokenFile())
		fmt.Println("✓ Logged out")
		return nil
	case "who":
		if c.token == "" {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("✓ Logged in (token: %s...)\n", c.token[:min(20, len(c.token))])
		return nil
	}
	return fmt.Errorf("unknown auth command: %s", args[0])
}

func signup(c *client, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "login email")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	org := fs.String("org", "", "organization name (organizations only)")
	phone := fs.String("phone", "", "phone number")
	userType := fs.String("type", "ORGANIZATION", "ORGANIZATION, PROFESSOR or ADMIN")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	payload := map[string]any{
		"email":     *email,
		"firstName": *first,
		"lastName":  *last,
		"phone":     *phone,
		"type":      strings.ToUpper(*userType),
		"password":  *password,
	}
	if *org != "" {
		payload["organizationName"] = *org
	}

	var result struct {
		UserName string `json:"userName"`
		Message  string `json:"message"`
	}
	if err := c.do(http.MethodPost, "/signup", payload, &result); err != nil {
		return err
	}
	fmt.Printf("✓ %s: %s\n", result.Message, result.UserName)
	return nil
}

func login(c *client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "login email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fs.PrintDefaults()
		return errors.New("email and password are required")
	}

	var result struct {
		Token  string `json:"token"`
		UserID int64  `json:"userId"`
		Type   string `json:"type"`
	}
	if err := c.do(http.MethodPost, "/login", map[string]string{"email": *email, "password": *password}, &result); err != nil {
		return err
	}
	if err := saveToken(result.Token); err != nil {
		return err
	}
	fmt.Printf("✓ Logged in as %s (id %d, %s)\n", *email, result.UserID, result.Type)
	return nil
}

type projectRow struct {
	ID          int64  `json:"id"`
	ProjectName string `json:"projectName"`
	Semester    string `json:"semester"`
	CreatedAt   string `json:"createdAt"`
	Tags        []struct {
		Value string `json:"value"`
	} `json:"tags"`
}

type projectPage struct {
	Projects      []projectRow `json:"projects"`
	Page          int          `json:"page"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
}

func handleProject(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: projectmatch project <list|org|show|register|edit|semesters>")
		return nil
	}

	switch args[0] {
	case "list":
		var page projectPage
		if err := c.do(http.MethodGet, "/project", nil, &page); err != nil {
			return err
		}
		printProjects(page)
		return nil
	case "org":
		return listOrganizationProjects(c, args[1:])
	case "show":
		id, err := idArg(args[1:], "project show <id>")
		if err != nil {
			return err
		}
		var detail map[string]any
		if err := c.do(http.MethodGet, "/project/"+id, nil, &detail); err != nil {
			return err
		}
		out, _ := json.MarshalIndent(detail, "", "  ")
		fmt.Println(string(out))
		return nil
	case "register":
		return writeProject(c, http.MethodPost, args[1:])
	case "edit":
		return writeProject(c, http.MethodPut, args[1:])
	case "semesters":
		for _, s := range domain.Semesters() {
			fmt.Println(s)
		}
		return nil
	}
	return fmt.Errorf("unknown project command: %s", args[0])
}

func listOrganizationProjects(c *client, args []string) error {
	fs := flag.NewFlagSet("org", flag.ExitOnError)
	page := fs.Int("page", 0, "page number (0-based)")
	size := fs.Int("size", 10, "page size")
	sortBy := fs.String("sort", "createdAt", "sort field")
	dir := fs.String("dir", "DESC", "ASC or DESC")
	semester := fs.String("semester", "", "semester filter, e.g. FALL_2025")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: projectmatch project org [flags] <organization-id>")
	}

	sem, err := semesterArg(*semester)
	if err != nil {
		return err
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(*page))
	q.Set("size", strconv.Itoa(*size))
	q.Set("sortBy", *sortBy)
	q.Set("sortDirection", *dir)
	if sem != "" {
		q.Set("semesterFilter", sem)
	}

	var result projectPage
	if err := c.do(http.MethodGet, "/project/organization/"+fs.Arg(0)+"?"+q.Encode(), nil, &result); err != nil {
		return err
	}
	printProjects(result)
	return nil
}

func writeProject(c *client, method string, args []string) error {
	fs := flag.NewFlagSet("project", flag.ExitOnError)
	id := fs.Int64("id", 0, "project id (edit only)")
	org := fs.Int64("org", 0, "organization id (register only)")
	name := fs.String("name", "", "project name")
	desc := fs.String("desc", "", "description")
	hours := fs.Int("hours", 0, "available time in hours")
	purchasing := fs.String("purchasing", "", "purchasing requirements")
	nda := fs.Bool("nda", false, "NDA required")
	showcase := fs.Bool("showcase", true, "showcase allowed")
	semester := fs.String("semester", "", "semester, e.g. FALL_2025")
	fs.Parse(args)

	sem, err := semesterArg(*semester)
	if err != nil {
		return err
	}

	payload := map[string]any{
		"projectName":     *name,
		"description":     *desc,
		"availableTime":   *hours,
		"ndaRequired":     *nda,
		"showcaseAllowed": *showcase,
		"semester":        sem,
	}
	if *purchasing != "" {
		payload["purchasingRequirements"] = *purchasing
	}
	if method == http.MethodPut {
		payload["id"] = *id
	} else {
		payload["organizationId"] = *org
	}
	return c.message(method, "/project", payload)
}

// semesterArg normalizes a -semester flag. Empty stays empty so the server
// reports a missing value itself.
func semesterArg(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	s, ok := domain.ParseSemester(raw)
	if !ok {
		known := make([]string, 0, len(domain.Semesters()))
		for _, k := range domain.Semesters() {
			known = append(known, string(k))
		}
		return "", fmt.Errorf("unknown semester %q (one of %s)", raw, strings.Join(known, ", "))
	}
	return string(s), nil
}

func printProjects(page projectPage) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSEMESTER\tTAGS\tCREATED")
	for _, p := range page.Projects {
		tags := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			tags = append(tags, t.Value)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.ProjectName, p.Semester, strings.Join(tags, ","), p.CreatedAt)
	}
	w.Flush()
	fmt.Printf("page %d of %d (%d projects)\n", page.Page+1, max(page.TotalPages, 1), page.TotalElements)
}

func handleTagType(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: projectmatch tagtype <add|rename>")
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return errors.New("usage: projectmatch tagtype add <name>")
		}
		return c.message(http.MethodPost, "/tag_type", map[string]any{"name": args[1]})
	case "rename":
		if len(args) < 3 {
			return errors.New("usage: projectmatch tagtype rename <id> <name>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		return c.message(http.MethodPut, "/tag_type", map[string]any{"id": id, "name": args[2]})
	}
	return fmt.Errorf("unknown tagtype command: %s", args[0])
}

func handleTagValue(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: projectmatch tagvalue <list|add|edit>")
		return nil
	}

	switch args[0] {
	case "list":
		var values []struct {
			ID       int64  `json:"id"`
			TagValue string `json:"tagValue"`
			TagType  string `json:"tagType"`
		}
		if err := c.do(http.MethodGet, "/tag_value", nil, &values); err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tVALUE")
		for _, v := range values {
			fmt.Fprintf(w, "%d\t%s\t%s\n", v.ID, v.TagType, v.TagValue)
		}
		return w.Flush()
	case "add", "edit":
		fs := flag.NewFlagSet("tagvalue", flag.ExitOnError)
		id := fs.Int64("id", 0, "tag value id (edit only)")
		typeID := fs.Int64("type", 0, "tag type id")
		value := fs.String("value", "", "tag value")
		fs.Parse(args[1:])

		payload := map[string]any{"tagTypeId": *typeID, "value": *value}
		if args[0] == "edit" {
			payload["id"] = *id
			return c.message(http.MethodPut, "/tag_value", payload)
		}
		return c.message(http.MethodPost, "/tag_value", payload)
	}
	return fmt.Errorf("unknown tagvalue command: %s", args[0])
}

func handleTag(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: projectmatch tag <add|rm>")
		return nil
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("tag", flag.ExitOnError)
		project := fs.Int64("project", 0, "project id")
		value := fs.Int64("value", 0, "tag value id")
		professor := fs.Int64("professor", 0, "professor id")
		fs.Parse(args[1:])
		return c.message(http.MethodPost, "/project/tag", map[string]any{
			"projectId":   *project,
			"tagValueId":  *value,
			"professorId": *professor,
		})
	case "rm":
		id, err := idArg(args[1:], "tag rm <id>")
		if err != nil {
			return err
		}
		return c.message(http.MethodDelete, "/project/tag/"+id, nil)
	}
	return fmt.Errorf("unknown tag command: %s", args[0])
}

func handleValidation(c *client, args []string) error {
	if len(args) < 1 || (args[0] != "add" && args[0] != "edit") {
		fmt.Println("Usage: projectmatch validation <add|edit> -project <id> -professor <id> -feedback <text>")
		return nil
	}

	fs := flag.NewFlagSet("validation", flag.ExitOnError)
	project := fs.Int64("project", 0, "project id")
	professor := fs.Int64("professor", 0, "professor id")
	feedback := fs.String("feedback", "", "feedback text")
	fs.Parse(args[1:])

	method := http.MethodPost
	if args[0] == "edit" {
		method = http.MethodPut
	}
	return c.message(method, "/project/validation", map[string]any{
		"projectId":         *project,
		"professorId":       *professor,
		"professorFeedback": *feedback,
	})
}

func idArg(args []string, usage string) (string, error) {
	if len(args) < 1 {
		return "", errors.New("usage: projectmatch " + usage)
	}
	if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
		return "", fmt.Errorf("invalid id %q", args[0])
	}
	return args[0], nil
}

// Helper functions
func getAPIURL() string {
	if api := os.Getenv("PROJECTMATCH_API"); api != "" {
		return api
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".projectmatch", "token")
}

func saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(tokenFile()), 0700); err != nil {
		return err
	}
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return strings.TrimSpace(string(data))
}

func printUsage() {
	fmt.Print(`ProjectMatch CLI

Usage:
  projectmatch <command> [options]

Commands:
  auth        Accounts (signup, login, logout, who)
  project     Projects (list, org, show, register, edit, semesters)
  tagtype     Tag types (add, rename)
  tagvalue    Tag values (list, add, edit)
  tag         Project tags (add, rm)
  validation  Professor feedback (add, edit)
  help        Show this help message

Environment Variables:
  PROJECTMATCH_API    API endpoint (default: http://localhost:8080/api)

Examples:
  projectmatch auth signup -email org@acme.com -first Ada -last Lovelace -phone 555-0100 -type ORGANIZATION -password pass
  projectmatch auth login -email org@acme.com -password pass
  projectmatch project org -semester FALL_2025 -sort projectName -dir ASC 1
  projectmatch tag add -project 3 -value 7 -professor 2
`)
}
