package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// Command は外部コマンドの実行内容
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env が nil の場合は親プロセスの環境変数を引き継ぐ
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Error は外部コマンドが失敗したときのエラー
type Error struct {
	Cmd      string
	Args     []string
	Dir      string
	ExitCode int
	Stderr   string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("(in %s) %s %s", e.Dir, e.Cmd, strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return fmt.Sprintf("%s: exit %d\n%s", msg, e.ExitCode, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s: exit %d", msg, e.ExitCode)
}

// String はコマンドラインを表示用に組み立てる
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Run はコマンドを実行し、出力はそのまま端末へ流す
func (c Command) Run(ctx context.Context) error {
	var stderrBuf bytes.Buffer
	cmd := c.prepare(ctx)
	cmd.Stdout = writerOr(c.Stdout, os.Stdout)
	cmd.Stderr = io.MultiWriter(writerOr(c.Stderr, os.Stderr), &stderrBuf)

	if err := cmd.Run(); err != nil {
		return c.wrapErr(err, stderrBuf.String())
	}
	return nil
}

// Output はコマンドを実行し、標準出力を文字列で返す
func (c Command) Output(ctx context.Context) (string, error) {
	var stdout, stderrBuf bytes.Buffer
	cmd := c.prepare(ctx)
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(writerOr(c.Stderr, os.Stderr), &stderrBuf)

	if err := cmd.Run(); err != nil {
		return stdout.String(), c.wrapErr(err, stderrBuf.String())
	}
	return stdout.String(), nil
}

func (c Command) prepare(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = c.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	return cmd
}

func (c Command) wrapErr(err error, stderr string) error {
	exitCode := 1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	} else {
		// 実行ファイルが見つからない場合など
		return errors.Wrapf(err, "running %s", c.Name)
	}
	return &Error{
		Cmd:      c.Name,
		Args:     c.Args,
		Dir:      c.Dir,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

// ExitCode はエラーから終了コードを取り出す。コマンドのエラーでなければ -1
func ExitCode(err error) int {
	var cmdErr *Error
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return -1
}

func writerOr(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
