//go:build windows

package acad

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/marmos91/blockpurge/pkg/drawing"
	drawingerrors "github.com/marmos91/blockpurge/pkg/drawing/errors"
)

// HRESULTs that mean the application went away rather than that one call failed.
const (
	hrSFalse                = 0x00000001
	hrRPCServerUnavailable  = 0x800706BA
	hrRPCCallFailed         = 0x800706BE
	hrRPCDisconnected       = 0x80010108
	hrRPCServerCallRetryLat = 0x8001010A
)

var errSessionClosed = errors.New("session closed")

// Session is a COM-backed drawing.Session on AutoCAD's active document.
//
// COM apartments are per thread: Open locks the calling goroutine to its OS
// thread and Close unlocks it, so the session must be opened, used and
// closed from the same goroutine.
type Session struct {
	cfg    Config
	app    *ole.IDispatch
	doc    *ole.IDispatch
	name   string
	closed bool
}

var _ drawing.Session = (*Session)(nil)

// Open attaches to AutoCAD and its active document.
func Open(_ context.Context, cfg Config) (drawing.Session, error) {
	cfg.ApplyDefaults()

	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil && hresult(err) != hrSFalse {
		runtime.UnlockOSThread()
		return nil, drawingerrors.NewSessionUnavailableError(fmt.Errorf("initialize COM: %w", err))
	}

	s := &Session{cfg: cfg}
	if err := s.attach(); err != nil {
		_ = s.Close()
		return nil, drawingerrors.NewSessionUnavailableError(err)
	}
	return s, nil
}

func (s *Session) attach() error {
	unknown, err := oleutil.GetActiveObject(s.cfg.ProgID)
	if err != nil {
		if !s.cfg.Launch {
			return fmt.Errorf("attach to %s: %w", s.cfg.ProgID, err)
		}
		unknown, err = oleutil.CreateObject(s.cfg.ProgID)
		if err != nil {
			return fmt.Errorf("start %s: %w", s.cfg.ProgID, err)
		}
	}
	defer unknown.Release()

	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("query IDispatch: %w", err)
	}
	s.app = app

	docV, err := oleutil.GetProperty(app, "ActiveDocument")
	if err != nil {
		return fmt.Errorf("get active document: %w", err)
	}
	s.doc = docV.ToIDispatch()
	if s.doc == nil {
		return errors.New("no active document")
	}

	name, err := stringProperty(s.doc, "Name")
	if err != nil {
		return err
	}
	s.name = name
	return nil
}

// Document implements drawing.Session.
func (s *Session) Document() string {
	return s.name
}

// Blocks implements drawing.Session.
func (s *Session) Blocks(_ context.Context) ([]drawing.BlockRecord, error) {
	if s.closed {
		return nil, drawingerrors.NewSessionUnavailableError(errSessionClosed)
	}

	blocks, err := dispatchProperty(s.doc, "Blocks")
	if err != nil {
		return nil, s.enumerationError("blocks", err)
	}
	defer blocks.Release()

	count, err := intProperty(blocks, "Count")
	if err != nil {
		return nil, s.enumerationError("blocks", err)
	}

	records := make([]drawing.BlockRecord, 0, count)
	for i := 0; i < count; i++ {
		rec, err := readItem(blocks, i, readBlock)
		if err != nil {
			return nil, s.enumerationError("blocks", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ModelSpace implements drawing.Session.
func (s *Session) ModelSpace(_ context.Context) ([]drawing.Entity, error) {
	if s.closed {
		return nil, drawingerrors.NewSessionUnavailableError(errSessionClosed)
	}

	space, err := dispatchProperty(s.doc, "ModelSpace")
	if err != nil {
		return nil, s.enumerationError("model space", err)
	}
	defer space.Release()

	count, err := intProperty(space, "Count")
	if err != nil {
		return nil, s.enumerationError("model space", err)
	}

	entities := make([]drawing.Entity, 0, count)
	for i := 0; i < count; i++ {
		e, err := readItem(space, i, readEntity)
		if err != nil {
			return nil, s.enumerationError("model space", err)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// LookupBlock implements drawing.Session.
//
// Blocks.Item raises for a missing key; any failure that is not a lost
// connection is reported as not found.
func (s *Session) LookupBlock(_ context.Context, name string) (drawing.BlockRecord, error) {
	if s.closed {
		return drawing.BlockRecord{}, drawingerrors.NewSessionUnavailableError(errSessionClosed)
	}

	blocks, err := dispatchProperty(s.doc, "Blocks")
	if err != nil {
		if disconnected(err) {
			return drawing.BlockRecord{}, drawingerrors.NewSessionUnavailableError(err)
		}
		return drawing.BlockRecord{}, fmt.Errorf("lookup %s: %w", name, err)
	}
	defer blocks.Release()

	itemV, err := oleutil.CallMethod(blocks, "Item", name)
	if err != nil {
		if disconnected(err) {
			return drawing.BlockRecord{}, drawingerrors.NewSessionUnavailableError(err)
		}
		return drawing.BlockRecord{}, drawingerrors.NewNotFoundError(name)
	}
	defer func() { _ = itemV.Clear() }()

	return readBlock(itemV.ToIDispatch())
}

// PurgeBlock implements drawing.Session.
func (s *Session) PurgeBlock(_ context.Context, name string) error {
	if s.closed {
		return drawingerrors.NewSessionUnavailableError(errSessionClosed)
	}

	v, err := oleutil.CallMethod(s.doc, "SendCommand", s.cfg.Command(name))
	if err != nil {
		if disconnected(err) {
			return drawingerrors.NewSessionUnavailableError(err)
		}
		return drawingerrors.NewCommandError(name, err)
	}
	_ = v.Clear()
	return nil
}

// Close implements drawing.Session.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.doc != nil {
		s.doc.Release()
		s.doc = nil
	}
	if s.app != nil {
		s.app.Release()
		s.app = nil
	}
	ole.CoUninitialize()
	runtime.UnlockOSThread()
	return nil
}

func (s *Session) enumerationError(target string, err error) error {
	if disconnected(err) {
		return drawingerrors.NewSessionUnavailableError(err)
	}
	return drawingerrors.NewEnumerationError(target, err)
}

func readItem[T any](coll *ole.IDispatch, i int, read func(*ole.IDispatch) (T, error)) (T, error) {
	var zero T
	v, err := oleutil.CallMethod(coll, "Item", i)
	if err != nil {
		return zero, fmt.Errorf("item %d: %w", i, err)
	}
	defer func() { _ = v.Clear() }()
	return read(v.ToIDispatch())
}

func readBlock(b *ole.IDispatch) (drawing.BlockRecord, error) {
	var rec drawing.BlockRecord
	var err error

	if rec.Name, err = stringProperty(b, "Name"); err != nil {
		return rec, err
	}
	if rec.IsLayout, err = boolProperty(b, "IsLayout"); err != nil {
		return rec, err
	}
	if rec.IsXRef, err = boolProperty(b, "IsXRef"); err != nil {
		return rec, err
	}
	rec.AttributeCount, rec.AttributeErr = attributeCount(b)
	return rec, nil
}

// attributeCount calls GetAttributes, which many block objects do not
// support. Failure is returned separately and never fails the record.
func attributeCount(b *ole.IDispatch) (int, error) {
	v, err := oleutil.CallMethod(b, "GetAttributes")
	if err != nil {
		return 0, err
	}
	defer func() { _ = v.Clear() }()

	arr := v.ToArray()
	if arr == nil {
		return 0, nil
	}
	n, err := arr.TotalElements(0)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func readEntity(e *ole.IDispatch) (drawing.Entity, error) {
	var ent drawing.Entity
	var err error

	if ent.Type, err = stringProperty(e, "ObjectName"); err != nil {
		return ent, err
	}
	if !ent.IsBlockReference() {
		return ent, nil
	}
	if ent.Name, err = stringProperty(e, "Name"); err != nil {
		return ent, err
	}
	if ent.EffectiveName, err = stringProperty(e, "EffectiveName"); err != nil {
		return ent, err
	}
	return ent, nil
}

func dispatchProperty(d *ole.IDispatch, name string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(d, name)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	disp := v.ToIDispatch()
	if disp == nil {
		_ = v.Clear()
		return nil, fmt.Errorf("get %s: not an object", name)
	}
	return disp, nil
}

func stringProperty(d *ole.IDispatch, name string) (string, error) {
	v, err := oleutil.GetProperty(d, name)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", name, err)
	}
	defer func() { _ = v.Clear() }()
	return v.ToString(), nil
}

func boolProperty(d *ole.IDispatch, name string) (bool, error) {
	v, err := oleutil.GetProperty(d, name)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", name, err)
	}
	defer func() { _ = v.Clear() }()
	b, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("get %s: unexpected type %T", name, v.Value())
	}
	return b, nil
}

func intProperty(d *ole.IDispatch, name string) (int, error) {
	v, err := oleutil.GetProperty(d, name)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", name, err)
	}
	defer func() { _ = v.Clear() }()
	return int(v.Val), nil
}

func hresult(err error) uintptr {
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		return oleErr.Code()
	}
	return 0
}

func disconnected(err error) bool {
	switch hresult(err) {
	case hrRPCServerUnavailable, hrRPCCallFailed, hrRPCDisconnected, hrRPCServerCallRetryLat:
		return true
	}
	return false
}
