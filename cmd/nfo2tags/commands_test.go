package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nfo2tags/internal/mkvtags"
	"nfo2tags/internal/testsupport"
)

func TestConvertToStdout(t *testing.T) {
	dir := t.TempDir()
	nfoPath := filepath.Join(dir, "Heat.nfo")
	testsupport.WriteNFO(t, nfoPath)

	out, _, err := runCLI(t, "convert", nfoPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "<Tags>")
	requireContains(t, out, "<Name>Director</Name>")
	requireContains(t, out, "<String>Michael Mann</String>")
}

func TestConvertToFile(t *testing.T) {
	dir := t.TempDir()
	nfoPath := filepath.Join(dir, "Heat.nfo")
	testsupport.WriteNFO(t, nfoPath)
	target := filepath.Join(dir, "tags.xml")

	_, stderr, err := runCLI(t, "convert", nfoPath, "-o", target)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, stderr, "Wrote tags to "+target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read tags: %v", err)
	}
	requireContains(t, string(data), "<Name>TITLE</Name>")
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.nfo")
	testsupport.WriteNFO(t, broken, "<movie><title>Heat</movie>")

	_, _, err := runCLI(t, "convert", broken)
	var parseErr *mkvtags.ParseError
	if !errors.As(err, &parseErr) || parseErr.Path != broken {
		t.Fatalf("expected parse error naming %s, got %v", broken, err)
	}

	_, _, err = runCLI(t, "convert", filepath.Join(dir, "missing.nfo"))
	if !errors.Is(err, mkvtags.ErrIO) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected io error for missing file, got %v", err)
	}

	if _, _, err := runCLI(t, "convert"); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestConvertToFileRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.nfo")
	testsupport.WriteNFO(t, broken, "<movie><genre>Crime</genre><title>Heat</movie>")
	target := filepath.Join(dir, "tags.xml")

	_, _, err := runCLI(t, "convert", broken, "-o", target)
	if !errors.Is(err, mkvtags.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if _, statErr := os.Stat(target); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected partial tags file to be removed, stat err = %v", statErr)
	}
}

func TestConvertMissingSourceKeepsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tags.xml")
	testsupport.WriteText(t, target, "previous")

	_, _, err := runCLI(t, "convert", filepath.Join(dir, "missing.nfo"), "-o", target)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing source error, got %v", err)
	}
	data, readErr := os.ReadFile(target)
	if readErr != nil || string(data) != "previous" {
		t.Fatalf("expected existing output untouched, got %q (%v)", data, readErr)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Tools ==")
	requireContains(t, out, "FFmpeg:")
	requireContains(t, out, "mkvpropedit:")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "State:")
	requireContains(t, out, env.configPath)
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := env.run(t, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No videos processed yet")
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, "[history]\nenabled = false")
	out, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "History is disabled")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t, "[bogus]\nkey = 1")
	if _, _, err := env.run(t, "config", "validate"); err == nil {
		t.Fatal("expected unknown key to fail validation")
	}
}
