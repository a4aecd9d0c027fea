package handler

import "net/http"

type rawResponse struct {
	status      int
	contentType string
	body        []byte
}

func (r rawResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	if r.contentType != "" {
		w.Header().Set("Content-Type", r.contentType)
	}
	w.WriteHeader(r.status)
	if len(r.body) == 0 {
		return nil
	}
	_, err := w.Write(r.body)
	return err
}

// Raw writes body unchanged with the given status and content type.
// It is used to relay responses from upstream services verbatim.
func Raw(status int, contentType string, body []byte) Response {
	return rawResponse{status: status, contentType: contentType, body: body}
}
