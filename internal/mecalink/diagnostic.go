package mecalink

import (
	"context"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mecalink/admin-gateway/internal/domain"
)

// DiagnosticClient calls the external diagnostic service. It lives outside
// the MecaLink API and needs no token.
type DiagnosticClient struct {
	client *Client
}

func NewDiagnosticClient(endpoint string, opts ...Option) *DiagnosticClient {
	return &DiagnosticClient{client: New(endpoint, opts...)}
}

func (d *DiagnosticClient) Diagnose(ctx context.Context, req domain.DiagnosticRequest) (domain.Diagnostic, error) {
	raw, err := d.client.do(ctx, call{
		method: http.MethodPost,
		body:   req,
	})
	if err != nil {
		return domain.Diagnostic{}, err
	}

	var diag domain.Diagnostic
	if err = unwrapLoose(raw, &diag); err != nil {
		return domain.Diagnostic{}, err
	}
	err = validation.ValidateStruct(
		&diag,
		validation.Field(&diag.Diagnostic, validation.Required),
	)
	if err != nil {
		return domain.Diagnostic{}, decodeError(fmt.Errorf("diagnostic answer -> %w", err))
	}

	return diag, nil
}
