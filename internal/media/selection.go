package media

import (
	"errors"
	"sync"
)

var (
	ErrNothingPending   = errors.New("no pending asset of this kind")
	ErrNothingProcessed = errors.New("no processed asset of this kind")
	ErrSuperseded       = errors.New("pending asset was replaced while processing")
)

type slot struct {
	raw       *RawAsset
	processed *ProcessedAsset
}

// Selection holds at most one pending image and one pending audio asset,
// never both, plus the processed output of each kind.
//
// Selecting an asset of kind K clears the other kind's raw and processed
// slots and K's processed slot.
type Selection struct {
	mu         sync.Mutex
	image      slot
	audio      slot
	generation uint64
}

// Ticket identifies the pending asset a transcode was started for.
type Ticket struct {
	Kind       Kind
	Generation uint64
}

// SelectionState is a point-in-time copy of the slots.
type SelectionState struct {
	PendingImage   *RawAsset
	PendingAudio   *RawAsset
	ProcessedImage *ProcessedAsset
	ProcessedAudio *ProcessedAsset
}

func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) slotFor(kind Kind) (*slot, *slot) {
	if kind == KindImage {
		return &s.image, &s.audio
	}
	return &s.audio, &s.image
}

// Select makes asset the pending asset of its kind.
func (s *Selection) Select(asset RawAsset) error {
	if asset.Kind != KindImage && asset.Kind != KindAudio {
		return ErrUnsupportedInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	own, other := s.slotFor(asset.Kind)
	other.raw = nil
	other.processed = nil
	own.processed = nil
	own.raw = &asset
	s.generation++
	return nil
}

// Pending returns the pending asset of kind and a ticket for storing its result.
func (s *Selection) Pending(kind Kind) (RawAsset, Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind != KindImage && kind != KindAudio {
		return RawAsset{}, Ticket{}, ErrUnsupportedInput
	}
	own, _ := s.slotFor(kind)
	if own.raw == nil {
		return RawAsset{}, Ticket{}, ErrNothingPending
	}
	return *own.raw, Ticket{Kind: kind, Generation: s.generation}, nil
}

// Store attaches out to the pending asset the ticket was issued for. It fails
// with ErrSuperseded if any asset was selected after the ticket was issued.
func (s *Selection) Store(t Ticket, out ProcessedAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Generation != s.generation {
		return ErrSuperseded
	}
	own, _ := s.slotFor(t.Kind)
	if own.raw == nil {
		return ErrSuperseded
	}
	own.processed = &out
	return nil
}

func (s *Selection) Processed(kind Kind) (ProcessedAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind != KindImage && kind != KindAudio {
		return ProcessedAsset{}, ErrUnsupportedInput
	}
	own, _ := s.slotFor(kind)
	if own.processed == nil {
		return ProcessedAsset{}, ErrNothingProcessed
	}
	return *own.processed, nil
}

func (s *Selection) State() SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SelectionState{
		PendingImage:   s.image.raw,
		PendingAudio:   s.audio.raw,
		ProcessedImage: s.image.processed,
		ProcessedAudio: s.audio.processed,
	}
}
