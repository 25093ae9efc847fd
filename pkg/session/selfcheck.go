package session

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
)

// Self-check stages reported in SelfCheckError.Stage.
const (
	StageEncode  = "encode"
	StageEncrypt = "encrypt"
	StageDecrypt = "decrypt"
	StageParse   = "parse"
	StageCompare = "compare"
)

type probe struct {
	Marker    string `json:"marker"`
	Timestamp int64  `json:"timestamp"`
}

// SelfCheck encrypts a random probe with the primary key and decrypts it
// again, each step under the configured timeout. It returns a
// *SelfCheckError describing the first failing stage.
func (m *Manager) SelfCheck(ctx context.Context) error {
	ctx, span := m.tracer.Start(ctx, "session.SelfCheck")
	defer span.End()

	err := m.selfCheck(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (m *Manager) selfCheck(ctx context.Context) error {
	want := probe{
		Marker:    uuid.NewString(),
		Timestamp: m.resolver.Now().UnixMilli(),
	}
	payload, err := json.Marshal(want)
	if err != nil {
		return &SelfCheckError{Stage: StageEncode, Err: err}
	}

	key := m.resolver.Keys().Primary()
	token, err := m.resolver.Encrypt(ctx, string(payload), key)
	if err != nil {
		return &SelfCheckError{Stage: StageEncrypt, Err: err}
	}

	plaintext, err := m.resolver.Decrypt(ctx, token, key)
	if err != nil {
		return &SelfCheckError{Stage: StageDecrypt, Err: err}
	}

	var got probe
	if err := json.Unmarshal([]byte(plaintext), &got); err != nil {
		return &SelfCheckError{Stage: StageParse, Err: err}
	}
	if got != want {
		return &SelfCheckError{Stage: StageCompare, Err: ErrSelfCheckMismatch}
	}
	return nil
}
