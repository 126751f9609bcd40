// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/patternlab/catalog"
	"github.com/zintix-labs/patternlab/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.Wrap(context.DeadlineExceeded, "sweep"), http.StatusGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout},
		{catalog.ErrNotFound.With("id=9"), http.StatusNotFound},
		{errs.Wrap(catalog.ErrNotFound, "resolve"), http.StatusNotFound},
		{errs.NewWarn("bad amount"), http.StatusBadRequest},
		{errs.NewFatal("pool closed"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("StatusCode(%v)=%d want %d", c.err, got, c.want)
		}
	}
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, nil, errs.NewWarn("layouts must > 0"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", rec.Code)
	}
	var b Body
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Level != "warn" || b.Error == "" {
		t.Fatalf("body=%+v", b)
	}

	rec = httptest.NewRecorder()
	Write(rec, nil, nil)
	if rec.Body.Len() != 0 {
		t.Fatalf("nil error wrote a body")
	}
}
