// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package ctxlog_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/js-arias/revdag/internal/ctxlog"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.New(&buf, false))

	ctxlog.FromContext(ctx).Info("chain", "generation", 10)
	ctxlog.FromContext(ctx).Debug("hidden")
	if got := buf.String(); !strings.Contains(got, "generation=10") {
		t.Errorf("log: got %q, want record with %q", got, "generation=10")
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("log: unexpected debug record")
	}

	// a context without logger discards records
	ctxlog.FromContext(context.Background()).Info("discarded")
}
