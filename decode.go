package wad

import (
	"bytes"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Decode reads a WAD from r.
//
// Records are decoded in order until the terminator. For each record the
// registry resolves the resource id, the payload is unpacked if the codec
// recognizes it as compressed, and the resource kind is chosen with [KindFor].
// Mesh objects are chained: a partial mesh object gets the parent named by its
// registry parent override, or else the last complete mesh object decoded
// earlier in the same call.
//
// By default, Decode will:
//   - Use safe default size limits
//   - Detect and unpack zstd, LZ4, Brotli, ZIP, Snappy and XZ payloads, packing with zstd
//   - Decode typed resources
//   - Skip hash verification
//
// A record that fails to unpack or parse becomes an errored placeholder and is
// listed in the Report. Decode only fails, returning no Archive, for structural
// problems: a truncated stream, a malformed record header, an id the registry
// cannot resolve (ErrStructural), or an exceeded limit (ErrLimitExceeded).
func Decode(r io.Reader, reg Registry, opts ...ReadOption) (*Archive, *Report, error) {
	cfg := newReadConfig(opts)
	b, err := readAll(limitReader(r, cfg.limits.MaxArchiveLen))
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(b)) > cfg.limits.MaxArchiveLen {
		return nil, nil, fmt.Errorf("%w: archive larger than %d bytes", ErrLimitExceeded, cfg.limits.MaxArchiveLen)
	}
	return decodeArchive(b, reg, cfg)
}

// DecodeBytes is Decode over an in-memory WAD.
func DecodeBytes(b []byte, reg Registry, opts ...ReadOption) (*Archive, *Report, error) {
	cfg := newReadConfig(opts)
	if uint64(len(b)) > cfg.limits.MaxArchiveLen {
		return nil, nil, fmt.Errorf("%w: archive larger than %d bytes", ErrLimitExceeded, cfg.limits.MaxArchiveLen)
	}
	return decodeArchive(b, reg, cfg)
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{limits: defaultLimits(), typedResources: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	if cfg.codec == nil {
		cfg.codec = NewCodec(CompZSTD)
	}
	if cfg.log == nil {
		cfg.log = log
	}
	return cfg
}

// decodeState is the per-call fold over the record stream.
type decodeState struct {
	cfg    readConfig
	reg    Registry
	arc    *Archive
	report *Report

	// lastComplete is the fallback parent for partial mesh objects.
	lastComplete *MeshObjectHolder
	// current names the record being decoded, for diagnostics.
	current string
}

func decodeArchive(b []byte, reg Registry, cfg readConfig) (*Archive, *Report, error) {
	if reg == nil {
		return nil, nil, fmt.Errorf("%w: registry is nil", ErrValidation)
	}
	s := &decodeState{
		cfg:    cfg,
		reg:    reg,
		arc:    NewArchive(cfg.theme),
		report: &Report{},
	}
	if err := s.run(NewReader(b, cfg.order)); err != nil {
		if s.current != "" {
			err = fmt.Errorf("%s: %w", s.current, err)
		}
		return nil, nil, err
	}
	return s.arc, s.report, nil
}

func (s *decodeState) run(r *Reader) error {
	for {
		s.current = ""
		h, err := readRecordHeader(r)
		if err != nil {
			return err
		}
		if h.isTerminator() {
			if r.HasMore() {
				s.cfg.log.Debugf("ignoring %d bytes after terminator", r.Remaining())
			}
			return nil
		}
		if err := validateRecordHeader(h, s.cfg.limits); err != nil {
			return err
		}
		if s.arc.Len() >= s.cfg.limits.MaxRecords {
			return fmt.Errorf("%w: more than %d records", ErrLimitExceeded, s.cfg.limits.MaxRecords)
		}
		if err := s.decodeRecord(r, h); err != nil {
			return err
		}
	}
}

func (s *decodeState) decodeRecord(r *Reader, h recordHeader) error {
	info, err := s.reg.Resolve(h.ResourceID)
	if err != nil {
		return fmt.Errorf("%w: resource %d: %w", ErrStructural, h.ResourceID, err)
	}
	info.ID = h.ResourceID
	s.current = info.Name
	rlog := s.cfg.log.WithFields(logrus.Fields{"resource": info.Name, "id": h.ResourceID})

	stored, err := r.ReadBytes(int(h.PayloadLen))
	if err != nil {
		return err
	}
	e := &Entry{ResourceID: h.ResourceID, Tag: Tag(h.Tag), Info: info, State: StateUnloaded}
	if err := s.arc.Append(e); err != nil {
		return fmt.Errorf("%w: %w", ErrStructural, err)
	}

	e.compressed = s.cfg.codec.IsCompressed(stored)
	payload := stored
	if e.compressed {
		if payload, err = s.cfg.codec.Unpack(stored, s.cfg.limits.MaxUnpackedLen); err != nil {
			e.stored = stored
			s.fail(e, rlog, stored, fmt.Errorf("%w: unpack: %w", ErrPayloadDecode, err))
			return nil
		}
	}
	s.verify(h.ResourceID, payload, rlog)

	kind, known := KindDummy, true
	if s.cfg.typedResources {
		kind, known = KindFor(e.Tag, info.Name)
	}
	spec := variantSpec{kind: kind, theme: s.themeFor(info), size: len(payload)}
	if kind == KindMeshObject {
		spec.parent = s.parentFor(info, rlog)
	}
	e.Resource = newResource(spec)

	if err := parseResource(e.Resource, payload, s.cfg.order); err != nil {
		s.fail(e, rlog, payload, fmt.Errorf("%w: %s: %w", ErrPayloadDecode, kind, err))
		return nil
	}
	e.State = StateLoaded
	if mof, ok := e.Resource.(*MeshObjectHolder); ok && mof.Complete() {
		s.lastComplete = mof
	}
	if !known {
		rlog.Warnf("file was of an unknown type (%d)", h.Tag)
		s.report.add(e, OutcomeUnknownType, fmt.Errorf("%w: tag %d", ErrUnknownType, h.Tag))
		return nil
	}
	s.report.add(e, OutcomeLoaded, nil)
	return nil
}

// fail turns e into an errored placeholder holding data.
func (s *decodeState) fail(e *Entry, rlog logrus.FieldLogger, data []byte, err error) {
	rlog.WithError(err).Error("failed to load resource")
	e.Resource = &Dummy{Data: bytes.Clone(data)}
	e.State = StateErrored
	e.Err = err
	s.report.add(e, OutcomeErrored, err)
}

func (s *decodeState) verify(id int32, payload []byte, rlog logrus.FieldLogger) {
	if !s.cfg.verifyHashes {
		return
	}
	hv, ok := s.reg.(HashVerifier)
	if !ok {
		return
	}
	if err := hv.VerifyHash(id, payload); err != nil {
		rlog.WithError(err).Warn("hash verification failed")
	}
}

func (s *decodeState) themeFor(info ResourceInfo) Theme {
	if info.Theme != "" {
		return info.Theme
	}
	return s.arc.Theme
}

// parentFor picks the parent candidate for a mesh object: the override target
// if it was already decoded, otherwise the last complete mesh object.
func (s *decodeState) parentFor(info ResourceInfo, rlog logrus.FieldLogger) *MeshObjectHolder {
	if info.ParentOverride == "" {
		return s.lastComplete
	}
	if p, ok := s.overrideParent(info.ParentOverride); ok {
		return p
	}
	rlog.Warnf("mesh parent override %q was not found, using last complete mesh object", info.ParentOverride)
	return s.lastComplete
}

func (s *decodeState) overrideParent(name string) (*MeshObjectHolder, bool) {
	target, ok := s.reg.Lookup(name)
	if !ok {
		return nil, false
	}
	e, ok := s.arc.Lookup(target.ID)
	if !ok {
		return nil, false
	}
	mof, ok := e.Resource.(*MeshObjectHolder)
	return mof, ok
}
