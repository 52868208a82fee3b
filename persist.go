package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var errNoPrograms = errors.New("There are no programs on memory")

// image is the saved form of the user dictionary: the arena bytes up to
// nextPos, verbatim, with the header words and the port data.
type image struct {
	Magic     uint32 `cbor:"1,keyasint"`
	LastWord  uint16 `cbor:"2,keyasint"`
	NextPos   uint16 `cbor:"3,keyasint"`
	StartWord uint16 `cbor:"4,keyasint"`
	VRef      int32  `cbor:"5,keyasint"`
	Mem       []byte `cbor:"6,keyasint"`
}

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("mforth: failed to create CBOR enc mode: %v", err))
	}
	imageEncMode = em
}

func marshalImage(img *image) ([]byte, error) {
	return imageEncMode.Marshal(img)
}

func unmarshalImage(data []byte) (*image, error) {
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("unmarshal image: %w", err)
	}
	if img.Magic != imageMagic {
		return nil, fmt.Errorf("bad image magic %#x", img.Magic)
	}
	if int(img.NextPos) != len(img.Mem) {
		return nil, fmt.Errorf("image holds %d bytes, expected %d", len(img.Mem), img.NextPos)
	}
	return &img, nil
}

func (rt *Runtime) snapshot() *image {
	a := rt.arena
	return &image{
		Magic:     imageMagic,
		LastWord:  uint16(a.lastWord),
		NextPos:   uint16(a.nextPos),
		StartWord: uint16(a.startWord),
		VRef:      rt.vref,
		Mem:       append([]byte(nil), a.live()...),
	}
}

func (rt *Runtime) restore(img *image) error {
	a := rt.arena
	if uint(img.NextPos) > a.size() {
		return fmt.Errorf("image of %d bytes does not fit an arena of %d", img.NextPos, a.size())
	}
	a.erase()
	if err := a.mem.Stor(0, img.Mem...); err != nil {
		return err
	}
	a.lastWord = WordHandle(img.LastWord)
	a.nextPos = uint(img.NextPos)
	a.startWord = WordHandle(img.StartWord)
	rt.vref = img.VRef
	return nil
}

func (rt *Runtime) saveImage(ctx context.Context) error {
	if rt.arena.lastWord == NoWord {
		return errNoPrograms
	}
	data, err := marshalImage(rt.snapshot())
	if err != nil {
		return err
	}
	if err := rt.store.Save(ctx, data); err != nil {
		return err
	}
	rt.storeLog.Infof("saved %d dictionary bytes", rt.arena.nextPos)
	return nil
}

// loadImage replaces the arena with the saved image; it returns
// nvstore.ErrEmpty when nothing was saved.
func (rt *Runtime) loadImage(ctx context.Context) error {
	data, err := rt.store.Load(ctx)
	if err != nil {
		return err
	}
	img, err := unmarshalImage(data)
	if err != nil {
		return err
	}
	if err := rt.restore(img); err != nil {
		return err
	}
	rt.storeLog.Infof("loaded %d dictionary bytes", rt.arena.nextPos)
	return nil
}

func (ctx *Context) saveDict(_ int32) {
	rt := ctx.rt
	rt.mutable("save")
	defer rt.unlockDict()
	if err := rt.saveImage(rt.ctx); err != nil {
		if errors.Is(err, errNoPrograms) {
			panic(interactiveError{err})
		}
		rt.storeLog.Errorf("save failed: %v", err)
		panic(interactiveErrorf("Cannot save User Dictionary"))
	}
}

func (ctx *Context) loadDict(_ int32) {
	rt := ctx.rt
	rt.mutable("load")
	defer rt.unlockDict()
	if err := rt.loadImage(rt.ctx); err != nil {
		rt.storeLog.Errorf("load failed: %v", err)
		panic(interactiveErrorf("Cannot load User Dictionary"))
	}
}
