package blogster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/blogster/blossom"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadImage uploads an image to the Blossom server and attaches it to the
// post: as the featured image when featured is set, otherwise as an inline
// image appended to the body. The upload is recorded in the library.
func (a *App) UploadImage(ctx context.Context, postID, name string, data []byte, featured bool) (Upload, Post, error) {
	if len(data) == 0 {
		return Upload{}, Post{}, fmt.Errorf("image %s is empty", name)
	}
	if len(data) > maxUploadSize {
		return Upload{}, Post{}, fmt.Errorf("image %s is too large (max %d MB)", name, maxUploadSize>>20)
	}
	p, err := a.Store.GetPost(postID)
	if err != nil {
		return Upload{}, Post{}, err
	}

	name, data, err = blossom.PrepareImage(name, data, a.Settings().Blossom.MaxImageWidth)
	if err != nil {
		return Upload{}, Post{}, err
	}
	uploader, err := a.Uploader()
	if err != nil {
		return Upload{}, Post{}, err
	}

	desc, err := uploader.Upload(ctx, name, data)
	if err != nil {
		a.Log.Warnw("image upload failed", "post", p.ID, "name", name, "err", err)
		return Upload{}, Post{}, err
	}

	u := Upload{
		SHA256:     desc.SHA256,
		URL:        desc.URL,
		Name:       name,
		Type:       desc.Type,
		Size:       desc.Size,
		Server:     uploader.Server(),
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.Library.SaveUpload(u); err != nil {
		a.Log.Warnw("could not record upload", "url", u.URL, "err", err)
	}

	if featured {
		p.SetImage(desc.URL)
	} else {
		p.AppendImage(desc.URL)
	}
	if err := a.savePost(&p); err != nil {
		return u, Post{}, err
	}
	a.Log.Infow("attached image", "post", p.ID, "url", desc.URL, "featured", featured)
	return u, p, nil
}

// UploadImageFile reads path and calls UploadImage with its contents.
func (a *App) UploadImageFile(ctx context.Context, postID, path string, featured bool) (Upload, Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Upload{}, Post{}, fmt.Errorf("read %s: %w", path, err)
	}
	return a.UploadImage(ctx, postID, filepath.Base(path), data, featured)
}
