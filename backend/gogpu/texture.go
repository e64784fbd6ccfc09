package gogpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/rawview"
	"github.com/gogpu/rawview/internal/convert"
)

// textureDestroyer is the interface for destroying GPU textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// renderer composites the current texture onto the window on each draw.
type renderer struct {
	window    *window
	textures  []*texture
	current   *texture
	presented bool
	destroyed bool
}

func (r *renderer) CreateTexture(d rawview.Descriptor) (rawview.Texture, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	t := &texture{
		renderer: r,
		desc:     d,
		staging:  image.NewRGBA(image.Rect(0, 0, d.Width, d.Height)),
		surface:  image.NewRGBA(image.Rect(0, 0, r.window.width, r.window.height)),
	}
	r.textures = append(r.textures, t)
	return t, nil
}

// Copy scales the texture's frame to the window size and makes it the
// texture drawn by the next frame.
func (r *renderer) Copy(t rawview.Texture) error {
	if r.destroyed {
		return ErrDestroyed
	}
	tex, ok := t.(*texture)
	if !ok || tex.renderer != r {
		return ErrForeignTexture
	}
	if tex.destroyed {
		return ErrDestroyed
	}
	convert.Scale(tex.surface, tex.staging)
	tex.dirty = true
	r.current = tex
	return nil
}

// Present marks the composited frame ready; gogpu shows it on its next draw.
func (r *renderer) Present() error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.presented = true
	return nil
}

func (r *renderer) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.current = nil
	if !r.window.running {
		r.releaseGPU()
	}
}

// draw uploads the current frame if needed and draws it at the origin.
// The GPU texture is created lazily because a TextureCreator only exists
// inside a draw callback.
func (r *renderer) draw(dc gpucontext.TextureDrawer) error {
	t := r.current
	if !r.presented || t == nil || t.destroyed {
		return nil
	}

	if t.gpu == nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}
		tex, err := creator.NewTextureFromRGBA(t.surface.Rect.Dx(), t.surface.Rect.Dy(), t.surface.Pix)
		if err != nil {
			return fmt.Errorf("gogpu: NewTextureFromRGBA failed: %w", err)
		}
		t.gpu = tex
		t.dirty = false
	} else if t.dirty {
		updater, ok := t.gpu.(gpucontext.TextureUpdater)
		if !ok {
			// No in-place update; recreate on the next draw.
			t.destroyGPU()
			return r.draw(dc)
		}
		if err := updater.UpdateData(t.surface.Pix); err != nil {
			return fmt.Errorf("gogpu: texture update failed: %w", err)
		}
		t.dirty = false
	}

	return dc.DrawTexture(t.gpu, 0, 0)
}

// releaseGPU destroys every GPU texture this renderer created.
func (r *renderer) releaseGPU() {
	for _, t := range r.textures {
		t.destroyGPU()
	}
}

// texture holds a frame as RGBA at frame size (staging) and at window
// size (surface), plus the lazily created GPU texture.
type texture struct {
	renderer  *renderer
	desc      rawview.Descriptor
	staging   *image.RGBA
	surface   *image.RGBA
	gpu       gpucontext.Texture
	dirty     bool
	destroyed bool
}

func (t *texture) Update(buf []byte, bytesPerRow int) error {
	if t.destroyed {
		return ErrDestroyed
	}
	if bytesPerRow != t.desc.BytesPerRow {
		return fmt.Errorf("%w: stride %d, want %d", rawview.ErrBufferSize, bytesPerRow, t.desc.BytesPerRow)
	}
	return convert.ToRGBA(t.desc, buf, t.staging.Pix)
}

// Destroy releases the texture. While gogpu is running the GPU object is
// kept until the close callback, since in-flight frames may still use it.
func (t *texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	if !t.renderer.window.running {
		t.destroyGPU()
	}
}

func (t *texture) destroyGPU() {
	if t.gpu == nil {
		return
	}
	if d, ok := t.gpu.(textureDestroyer); ok {
		d.Destroy()
	}
	t.gpu = nil
}
