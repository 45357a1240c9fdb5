package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/socialhub/internal/domain/model"
	"github.com/ericfisherdev/socialhub/internal/domain/port/driven"
	"github.com/ericfisherdev/socialhub/internal/metrics"
)

// CredentialSnapshotName is the durable blob the registry persists to.
const CredentialSnapshotName = "social-hub-apis"

// CredentialRegistry exclusively owns the collection of credential records.
// Secrets are obfuscated before they enter the collection; every mutation
// rewrites the whole collection to the snapshot store with each secret
// replaced by model.PlaceholderMarker.
//
// Mutations hold mu for their full duration, including the snapshot write,
// so the persisted state always reflects the last mutation to acquire it.
type CredentialRegistry struct {
	mu      sync.Mutex
	records []model.CredentialRecord

	cipher    driven.SecretCipher
	snapshots driven.SnapshotStore
	metrics   *metrics.Metrics
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewCredentialRegistry creates an empty registry. Call Restore to load the
// previously persisted collection.
func NewCredentialRegistry(
	cipher driven.SecretCipher,
	snapshots driven.SnapshotStore,
	m *metrics.Metrics,
	logger *slog.Logger,
) *CredentialRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialRegistry{
		cipher:    cipher,
		snapshots: snapshots,
		metrics:   m,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// snapshotRecord is the persisted form of one record. SecretFields always
// hold model.PlaceholderMarker.
type snapshotRecord struct {
	ID           string            `json:"id"`
	Platform     model.Platform    `json:"platform"`
	Name         string            `json:"name"`
	SecretFields map[string]string `json:"secretFields"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type snapshot struct {
	APIs []snapshotRecord `json:"apis"`
}

// Restore replaces the in-memory collection with the persisted snapshot.
// Restored records carry placeholder secrets, which cannot be revealed.
func (r *CredentialRegistry) Restore(ctx context.Context) error {
	data, err := r.snapshots.Load(ctx, CredentialSnapshotName)
	if err != nil {
		return fmt.Errorf("load credential snapshot: %w", err)
	}

	var snap snapshot
	if len(data) > 0 {
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("decode credential snapshot: %w", err)
		}
	}

	records := make([]model.CredentialRecord, 0, len(snap.APIs))
	for _, s := range snap.APIs {
		if !s.Platform.Valid() {
			r.logger.Warn("skipping restored credential with unsupported platform", "id", s.ID, "platform", s.Platform)
			continue
		}
		rec := model.CredentialRecord{
			ID:           s.ID,
			Platform:     s.Platform,
			DisplayName:  s.Name,
			SecretFields: s.SecretFields,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		}
		records = append(records, rec.Masked())
	}

	r.mu.Lock()
	r.records = records
	r.mu.Unlock()

	r.updateGauges(records)
	r.logger.Info("credential registry restored", "records", len(records))
	return nil
}

// Add validates the shape of secretFields against the platform's required
// set, obfuscates every value, appends the new record, and persists. It
// returns the generated id.
func (r *CredentialRegistry) Add(ctx context.Context, platform model.Platform, displayName string, secretFields map[string]string) (string, error) {
	if err := model.CheckSecretShape(platform, secretFields); err != nil {
		r.metrics.RecordMutation("add", err)
		return "", err
	}

	obfuscated, err := r.obfuscateAll(secretFields)
	if err != nil {
		r.metrics.RecordMutation("add", err)
		return "", err
	}

	now := r.now()
	rec := model.CredentialRecord{
		ID:           r.newID(),
		Platform:     platform,
		DisplayName:  displayName,
		SecretFields: obfuscated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.CredentialRecord, 0, len(r.records)+1)
	next = append(next, r.records...)
	next = append(next, rec)

	if err := r.commit(ctx, next); err != nil {
		r.metrics.RecordMutation("add", err)
		return "", err
	}

	r.metrics.RecordMutation("add", nil)
	r.logger.Info("credential added", "id", rec.ID, "platform", platform)
	return rec.ID, nil
}

// Remove deletes the record with id. An unknown id is not an error; the
// (unchanged) collection is still persisted.
func (r *CredentialRegistry) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.CredentialRecord, 0, len(r.records))
	for _, rec := range r.records {
		if rec.ID != id {
			next = append(next, rec)
		}
	}

	removed := len(next) != len(r.records)

	err := r.commit(ctx, next)
	r.metrics.RecordMutation("remove", err)
	if err != nil {
		return err
	}

	if removed {
		r.logger.Info("credential removed", "id", id)
	}
	return nil
}

// Update merges upd into the record with id and persists. The record's
// platform never changes, even if upd carries a different one. Replacement
// secret fields must belong to the platform's required set and are
// obfuscated like new ones. Returns driven.ErrCredentialNotFound for an
// unknown id.
func (r *CredentialRegistry) Update(ctx context.Context, id string, upd model.CredentialUpdate) (model.CredentialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		err := fmt.Errorf("update credential %s: %w", id, driven.ErrCredentialNotFound)
		r.metrics.RecordMutation("update", err)
		return model.CredentialRecord{}, err
	}

	rec := r.records[idx].Clone()

	if upd.Platform != nil && *upd.Platform != rec.Platform {
		r.logger.Debug("ignoring platform change on credential update", "id", id, "platform", rec.Platform, "requested", *upd.Platform)
	}

	if len(upd.SecretFields) > 0 {
		if err := checkReplacementFields(rec.Platform, upd.SecretFields); err != nil {
			r.metrics.RecordMutation("update", err)
			return model.CredentialRecord{}, err
		}
		obfuscated, err := r.obfuscateAll(upd.SecretFields)
		if err != nil {
			r.metrics.RecordMutation("update", err)
			return model.CredentialRecord{}, err
		}
		maps.Copy(rec.SecretFields, obfuscated)
	}

	if upd.DisplayName != nil {
		rec.DisplayName = *upd.DisplayName
	}
	rec.UpdatedAt = r.now()

	next := make([]model.CredentialRecord, len(r.records))
	copy(next, r.records)
	next[idx] = rec

	if err := r.commit(ctx, next); err != nil {
		r.metrics.RecordMutation("update", err)
		return model.CredentialRecord{}, err
	}

	r.metrics.RecordMutation("update", nil)
	r.logger.Info("credential updated", "id", id, "platform", rec.Platform)
	return rec.Clone(), nil
}

// ListByPlatform returns copies of the records for platform in insertion order.
func (r *CredentialRegistry) ListByPlatform(platform model.Platform) []model.CredentialRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []model.CredentialRecord{}
	for _, rec := range r.records {
		if rec.Platform == platform {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// List returns copies of every record in insertion order.
func (r *CredentialRegistry) List() []model.CredentialRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.CredentialRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec.Clone())
	}
	return out
}

// Get returns a copy of the record with id, or driven.ErrCredentialNotFound.
func (r *CredentialRegistry) Get(id string) (model.CredentialRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return model.CredentialRecord{}, fmt.Errorf("get credential %s: %w", id, driven.ErrCredentialNotFound)
	}
	return r.records[idx].Clone(), nil
}

// Reveal returns the plaintext secret fields of the record with id, for use
// on an outbound request. Returns driven.ErrSecretUnavailable when the
// record was restored from a masked snapshot.
func (r *CredentialRegistry) Reveal(id string) (map[string]string, error) {
	rec, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	plain := make(map[string]string, len(rec.SecretFields))
	for name, value := range rec.SecretFields {
		revealed, err := r.cipher.Reveal(value)
		if err != nil {
			return nil, fmt.Errorf("reveal %s field %s: %w", id, name, err)
		}
		plain[name] = revealed
	}
	return plain, nil
}

// commit persists next and, on success, makes it the live collection.
// Callers must hold mu.
func (r *CredentialRegistry) commit(ctx context.Context, next []model.CredentialRecord) error {
	snap := snapshot{APIs: make([]snapshotRecord, 0, len(next))}
	for _, rec := range next {
		masked := rec.Masked()
		snap.APIs = append(snap.APIs, snapshotRecord{
			ID:           masked.ID,
			Platform:     masked.Platform,
			Name:         masked.DisplayName,
			SecretFields: masked.SecretFields,
			CreatedAt:    masked.CreatedAt,
			UpdatedAt:    masked.UpdatedAt,
		})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode credential snapshot: %w", err)
	}
	if err := r.snapshots.Save(ctx, CredentialSnapshotName, data); err != nil {
		return fmt.Errorf("persist credential snapshot: %w", err)
	}

	r.records = next
	r.updateGauges(next)
	return nil
}

func (r *CredentialRegistry) updateGauges(records []model.CredentialRecord) {
	counts := make(map[model.Platform]int)
	for _, rec := range records {
		counts[rec.Platform]++
	}
	for _, p := range model.AllPlatforms() {
		r.metrics.SetCredentialsStored(string(p), counts[p])
	}
}

func (r *CredentialRegistry) obfuscateAll(fields map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for name, value := range fields {
		obfuscated, err := r.cipher.Obfuscate(value)
		if err != nil {
			return nil, fmt.Errorf("obfuscate field %s: %w", name, err)
		}
		out[name] = obfuscated
	}
	return out, nil
}

// indexOf returns the position of id in the collection, or -1.
// Callers must hold mu.
func (r *CredentialRegistry) indexOf(id string) int {
	for i, rec := range r.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// checkReplacementFields verifies that every replacement field belongs to the
// platform's required set and carries a value.
func checkReplacementFields(p model.Platform, fields map[string]string) error {
	shapeErr := &model.ShapeError{Platform: p}
	for name, value := range fields {
		switch {
		case !p.IsRequiredField(name):
			shapeErr.Unexpected = append(shapeErr.Unexpected, name)
		case strings.TrimSpace(value) == "":
			shapeErr.Missing = append(shapeErr.Missing, name)
		}
	}
	if len(shapeErr.Missing) == 0 && len(shapeErr.Unexpected) == 0 {
		return nil
	}
	slices.Sort(shapeErr.Missing)
	slices.Sort(shapeErr.Unexpected)
	return shapeErr
}
