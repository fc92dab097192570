package httpapi

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"recruit-engine/internal/events"
	"recruit-engine/internal/notify"
)

// NotifySettings is where the preference lives; *store.DB implements it.
type NotifySettings interface {
	GetNotify(ctx context.Context) (bool, error)
	SetNotify(ctx context.Context, on bool) error
}

type NotifyHandler struct {
	Settings NotifySettings
	Hub      *events.Hub
}

type notifyBody struct {
	Notify *bool `json:"notify"`
}

type notifyResp struct {
	Status  string `json:"status"`
	Notify  bool   `json:"notify"`
	Message string `json:"message,omitempty"`
}

func (h NotifyHandler) Get(w http.ResponseWriter, r *http.Request) {
	on, err := h.Settings.GetNotify(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "settings_failed", err.Error())
		return
	}
	writeJSON(w, notifyResp{Status: "ok", Notify: on})
}

// Set accepts {"notify": bool} as JSON, or a form where a present
// "notify" checkbox means on. A failed save answers 500 with the value
// the checkbox must go back to.
func (h NotifyHandler) Set(w http.ResponseWriter, r *http.Request) {
	want, ok := readNotify(r)
	if !ok {
		WriteError(w, r, http.StatusBadRequest, "invalid", `expected {"notify": true|false}`)
		return
	}
	ctx := r.Context()
	current, err := h.Settings.GetNotify(ctx)
	if err != nil {
		WriteJSON(w, http.StatusInternalServerError, notifyResp{Status: "fail", Notify: !want, Message: notify.FailureMessage})
		return
	}

	toggle := notify.NewToggle(current, h.Settings)
	if msg, err := toggle.Set(ctx, want); err != nil {
		WriteJSON(w, http.StatusInternalServerError, notifyResp{Status: "fail", Notify: toggle.Checked(), Message: msg})
		return
	}
	h.Hub.Emit(RequestIDFrom(ctx), events.TypeNotifyChanged, map[string]any{"notify": want})
	writeJSON(w, notifyResp{Status: "ok", Notify: toggle.Checked()})
}

func readNotify(r *http.Request) (bool, bool) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		var b notifyBody
		if err := dec.Decode(&b); err != nil || b.Notify == nil {
			return false, false
		}
		return *b.Notify, true
	}
	if err := r.ParseForm(); err != nil {
		return false, false
	}
	switch v := r.PostForm.Get("notify"); v {
	case "":
		return false, true
	case "on":
		return true, true
	default:
		on, err := strconv.ParseBool(v)
		return on, err == nil
	}
}
