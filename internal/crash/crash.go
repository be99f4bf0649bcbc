/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into a crash report file plus a clean non-zero
// exit instead of a raw stack dump on the terminal.
package crash

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "screenmd/internal/log"
	"screenmd/internal/telemetry"
	"screenmd/internal/version"
)

// exitFn allows testing Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs it with the stack, writes a timestamped
// report under root/.smd (or the temp dir when root is empty), and exits 2.
//
// Usage: defer crash.Recover(root)
func Recover(root string) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

	reportPath, err := writeReport(root, r, stack)
	if err != nil {
		l.Error("write crash report failed", slog.Any("err", err))
	}

	fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	// give a queued crash upload a chance to leave before exiting
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	telemetry.Flush(ctx)
	cancel()
	exitFn(2)
}

func writeReport(root string, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if root != "" {
		dir = filepath.Join(root, ".smd")
		_ = os.MkdirAll(dir, 0o755)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "screenmd Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if root != "" {
		fmt.Fprintf(&buf, "Workspace: %s\n", root)
	}
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", stack)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}

	// opt-in anonymized upload
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
