// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tracer

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

var (
	mu            sync.Mutex
	traceMessages []string
)

// Log just adds a message to the trace log. Key-value pairs are appended as key=value.
func Log(msg string, keyvals ...interface{}) {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}

	mu.Lock()
	traceMessages = append(traceMessages, b.String())
	mu.Unlock()
}

// Len is the number of buffered messages.
func Len() int {
	mu.Lock()
	defer mu.Unlock()
	return len(traceMessages)
}

// Flush writes the accumulated trace log to w and resets it.
func Flush(w io.Writer) error {
	mu.Lock()
	msgs := traceMessages
	// reset so the next run starts fresh
	traceMessages = nil
	mu.Unlock()

	for _, msg := range msgs {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}
