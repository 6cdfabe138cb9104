package lookup

import (
	"fmt"
	"io"
	"net/http"
)

// Upstream payloads never legitimately exceed this.
const maxResponseBytes = 4 << 20

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}
