package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// shellWaitDelay bounds how long Run waits for output pipes after the
// command's context is done.
const shellWaitDelay = 500 * time.Millisecond

type ExecuteShellInput struct {
	Command string `json:"command" jsonschema:"minLength=1" jsonschema_description:"Shell command to execute"`
}

var ExecuteShellDefinition = ToolDefinition{
	Name:        "execute_shell",
	Description: "Execute a shell command. Use with caution.",
	Schema:      GenerateSchema[ExecuteShellInput](),
	Function:    ExecuteShell,
}

// ExecuteShell runs the command through the configured shell with -c. The
// command string is not inspected; the policy only decides whether shell
// execution is allowed at all.
//
// It returns stdout, or stderr when stdout is empty.
func ExecuteShell(ctx context.Context, env Env, input json.RawMessage) (string, error) {
	var in ExecuteShellInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", classify(KindSchema, err)
	}
	if err := env.Policy.CheckShell(); err != nil {
		return "", classify(KindExec, err)
	}

	if env.ShellTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, env.ShellTimeout)
		defer cancel()
	}

	shell := env.Shell
	if shell == "" {
		shell = "sh"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", in.Command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	killGroupOnCancel(cmd)
	cmd.WaitDelay = shellWaitDelay

	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("command failed: %s: %v", in.Command, err)
		if se := strings.TrimSpace(stderr.String()); se != "" {
			msg += "\n" + se
		}
		return "", &Error{Kind: KindExec, Err: fmt.Errorf("%s", msg)}
	}

	if stdout.Len() > 0 {
		return stdout.String(), nil
	}
	return stderr.String(), nil
}
