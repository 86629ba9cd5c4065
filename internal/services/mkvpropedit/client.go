// Package mkvpropedit edits Matroska files in place: segment title, global
// tags and cover attachments.
package mkvpropedit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nfo2tags/internal/services"
)

// exitWarnings is the status mkvpropedit uses when it finished with warnings.
const exitWarnings = 1

// Attachment is a file to add to the container.
type Attachment struct {
	Path string
	Name string
	MIME string
}

// EditRequest describes one mkvpropedit invocation. Empty fields are left
// untouched in the file.
type EditRequest struct {
	File     string
	Title    string
	TagsPath string
	Cover    *Attachment
}

// Outcome reports what mkvpropedit said about a successful run.
type Outcome struct {
	Warnings []string
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps mkvpropedit CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs an mkvpropedit client.
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "mkvpropedit"
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Apply runs a single edit for req.
func (c *Client) Apply(ctx context.Context, req EditRequest) (Outcome, error) {
	args, err := BuildArgs(req)
	if err != nil {
		return Outcome{}, err
	}
	outcome, err := c.run(ctx, args)
	if err != nil {
		return outcome, fmt.Errorf("mkvpropedit edit: %w", err)
	}
	return outcome, nil
}

// DeleteAttachments removes every attachment of the given MIME type.
func (c *Client) DeleteAttachments(ctx context.Context, file, mime string) (Outcome, error) {
	if strings.TrimSpace(file) == "" {
		return Outcome{}, errors.New("mkvpropedit: file required")
	}
	outcome, err := c.run(ctx, []string{file, "--delete-attachment", "mime-type:" + mime})
	if err != nil {
		return outcome, fmt.Errorf("mkvpropedit delete %s attachments: %w", mime, err)
	}
	return outcome, nil
}

func (c *Client) run(ctx context.Context, args []string) (Outcome, error) {
	var outcome Outcome
	var lines []string
	err := c.exec.Run(ctx, c.binary, args, func(line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}
		lines = append(lines, line)
		if strings.HasPrefix(line, "Warning:") {
			outcome.Warnings = append(outcome.Warnings, line)
		}
	})
	if err == nil {
		return outcome, nil
	}
	if services.ExitCode(err) == exitWarnings {
		return outcome, nil
	}
	// mkvpropedit prints its errors on stdout.
	for _, line := range lines {
		if strings.HasPrefix(line, "Error:") {
			return outcome, fmt.Errorf("%w: %s", err, line)
		}
	}
	return outcome, err
}

// BuildArgs returns the mkvpropedit argument list for req.
func BuildArgs(req EditRequest) ([]string, error) {
	if strings.TrimSpace(req.File) == "" {
		return nil, errors.New("mkvpropedit: file required")
	}
	args := []string{req.File}
	if req.Title != "" {
		args = append(args, "--edit", "info", "--set", "title="+req.Title)
	}
	if req.TagsPath != "" {
		args = append(args, "--tags", "all:"+req.TagsPath)
	}
	if req.Cover != nil && req.Cover.Path != "" {
		name := req.Cover.Name
		if name == "" {
			name = "cover"
		}
		mime := req.Cover.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		args = append(args,
			"--attachment-name", name,
			"--attachment-mime-type", mime,
			"--add-attachment", req.Cover.Path,
		)
	}
	if len(args) == 1 {
		return nil, errors.New("mkvpropedit: nothing to edit")
	}
	return args, nil
}
