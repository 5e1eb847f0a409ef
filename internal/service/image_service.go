package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"informatch/internal/cache"
	"informatch/internal/config"
	"informatch/internal/middleware"
	"informatch/internal/models"
	"informatch/internal/observability"
	"informatch/internal/repository"
	"informatch/internal/storage"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageMaxUploadSizeMB = 10
	MaxImageSize                = 1080
	JPEGQuality                 = 82
	WebPQuality                 = 70

	// MaxImageSide and MaxImagePixels bound the decoded dimensions, checked
	// from the header before any pixel data is allocated.
	MaxImageSide   = 8000
	MaxImagePixels = 40_000_000
)

// mediaUpdateAttempts is how often a versioned media write is retried after
// losing a race with another upload or removal.
const mediaUpdateAttempts = 3

// AvatarSlot addresses the avatar instead of a photo slot.
const AvatarSlot = "avatar"

// ImageSlot is a parsed slot reference: a photo index or the avatar.
type ImageSlot struct {
	Index  int
	Avatar bool
}

func (s ImageSlot) String() string {
	if s.Avatar {
		return AvatarSlot
	}
	return strconv.Itoa(s.Index)
}

// ParseImageSlot accepts "0".."2" or "avatar".
func ParseImageSlot(raw string) (ImageSlot, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == AvatarSlot {
		return ImageSlot{Avatar: true}, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= models.MaxProfileImages {
		return ImageSlot{}, models.NewValidationError(
			fmt.Sprintf("Slot must be 0-%d or %q", models.MaxProfileImages-1, AvatarSlot))
	}
	return ImageSlot{Index: i}, nil
}

type UploadImageInput struct {
	UserID      uuid.UUID
	Slot        ImageSlot
	Filename    string
	ContentType string
	Content     []byte
}

// UploadedImage describes a stored upload and the profile's images after it.
type UploadedImage struct {
	Slot        string   `json:"slot"`
	URL         string   `json:"url"`
	FallbackURL string   `json:"fallback_url"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Images      []string `json:"images"`
	AvatarURL   string   `json:"avatar_url"`
}

// ImageService processes profile photos and stores them in object storage.
type ImageService struct {
	profiles           repository.ProfileRepository
	store              storage.ObjectStore
	cache              *cache.Cache
	maxUploadSizeBytes int64
}

func NewImageService(profiles repository.ProfileRepository, store storage.ObjectStore, profileCache *cache.Cache, cfg *config.Config) *ImageService {
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	if cfg != nil && cfg.ImageMaxUploadSizeMB > 0 {
		maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
	}
	return &ImageService{
		profiles:           profiles,
		store:              store,
		cache:              profileCache,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// MaxUploadSizeBytes is the largest accepted upload.
func (s *ImageService) MaxUploadSizeBytes() int64 {
	return s.maxUploadSizeBytes
}

// Upload validates and normalizes an image, stores a WebP rendition with a
// JPEG fallback and writes the WebP URL into the requested slot. A photo
// slot past the end of the list appends so images stay contiguous.
func (s *ImageService) Upload(ctx context.Context, in UploadImageInput) (out *UploadedImage, err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "rejected"
			if models.StatusFor(err) >= http.StatusInternalServerError {
				outcome = "error"
			}
		}
		observability.ImageUploads.WithLabelValues(outcome).Inc()
	}()

	if in.UserID == uuid.Nil {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide || cfg.Width*cfg.Height > MaxImagePixels {
		return nil, models.NewValidationError(
			fmt.Sprintf("Image dimensions too large (max %dx%d px)", MaxImageSide, MaxImageSide))
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	sourceMimeType := decodedFormatToMime(format)
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, sourceMimeType) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	if _, err := s.profiles.GetByUserID(ctx, in.UserID); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewValidationError(models.NoProfileMessage)
		}
		return nil, err
	}

	b := decoded.Bounds()
	cropX, cropY, side := centerSquare(b.Dx(), b.Dy())
	cropped := cropToRect(decoded, b.Min.X+cropX, b.Min.Y+cropY, side, side)
	normalized := resizeToFit(cropped, MaxImageSize, MaxImageSize)

	encodedJPG, err := encodeJPEG(normalized, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(normalized, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hash := buildDeterministicImageHash(in.UserID, encodedJPG)
	webpURL, err := s.store.Put(ctx, imageKey(in.UserID, hash, "webp"), "image/webp", encodedWebP)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	jpgURL, err := s.store.Put(ctx, imageKey(in.UserID, hash, "jpg"), "image/jpeg", encodedJPG)
	if err != nil {
		s.deleteObjects(ctx, webpURL)
		return nil, models.NewInternalError(err)
	}

	var replaced, slot string
	profile, err := s.updateMedia(ctx, in.UserID, func(p *models.Profile) error {
		replaced = ""
		if in.Slot.Avatar {
			replaced, p.AvatarURL = p.AvatarURL, webpURL
			slot = AvatarSlot
			return nil
		}
		images := append([]string{}, p.Images...)
		if in.Slot.Index < len(images) {
			replaced = images[in.Slot.Index]
			images[in.Slot.Index] = webpURL
			slot = strconv.Itoa(in.Slot.Index)
		} else {
			images = append(images, webpURL)
			slot = strconv.Itoa(len(images) - 1)
		}
		p.Images = images
		return nil
	})
	if err != nil {
		s.discardUnreferenced(ctx, in.UserID, webpURL)
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ProfileKey(in.UserID))
	if replaced != "" && replaced != webpURL && !references(profile, replaced) {
		s.deleteObjects(ctx, replaced)
	}

	nb := normalized.Bounds()
	return &UploadedImage{
		Slot:        slot,
		URL:         webpURL,
		FallbackURL: jpgURL,
		Width:       nb.Dx(),
		Height:      nb.Dy(),
		Images:      profile.Images,
		AvatarURL:   profile.AvatarURL,
	}, nil
}

// Remove clears a slot. Later photos shift down to keep the list ordered.
func (s *ImageService) Remove(ctx context.Context, userID uuid.UUID, slot ImageSlot) (*models.ProfileView, error) {
	var removed string
	profile, err := s.updateMedia(ctx, userID, func(p *models.Profile) error {
		if slot.Avatar {
			if p.AvatarURL == "" {
				return models.NewNotFoundError("Image", slot.String())
			}
			removed, p.AvatarURL = p.AvatarURL, ""
			return nil
		}
		if slot.Index >= len(p.Images) {
			return models.NewNotFoundError("Image", slot.String())
		}
		removed = p.Images[slot.Index]
		images := make([]string, 0, len(p.Images)-1)
		images = append(images, p.Images[:slot.Index]...)
		images = append(images, p.Images[slot.Index+1:]...)
		p.Images = images
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.ProfileKey(userID))

	if !references(profile, removed) {
		s.deleteObjects(ctx, removed)
	}
	view := profile.View(true)
	return &view, nil
}

// updateMedia loads the profile, applies mutate and writes the result with
// the version it was read at, reloading when another writer got there first.
func (s *ImageService) updateMedia(ctx context.Context, userID uuid.UUID, mutate func(*models.Profile) error) (*models.Profile, error) {
	var err error
	for attempt := 0; attempt < mediaUpdateAttempts; attempt++ {
		var profile *models.Profile
		if profile, err = s.profiles.GetByUserID(ctx, userID); err != nil {
			return nil, err
		}
		if err = mutate(profile); err != nil {
			return nil, err
		}
		if err = s.profiles.UpdateMedia(ctx, profile); err == nil {
			return profile, nil
		}
		if !models.HasCode(err, models.CodeConflict) {
			return nil, err
		}
		middleware.Logger.DebugContext(ctx, "profile media changed concurrently, retrying",
			slog.String("user_id", userID.String()), slog.Int("attempt", attempt+1))
	}
	return nil, err
}

// discardUnreferenced drops objects from a failed upload unless the profile
// already points at the same content.
func (s *ImageService) discardUnreferenced(ctx context.Context, userID uuid.UUID, url string) {
	if profile, err := s.profiles.GetByUserID(ctx, userID); err == nil && references(profile, url) {
		return
	}
	s.deleteObjects(ctx, url)
}

func references(p *models.Profile, url string) bool {
	return p.AvatarURL == url || containsString(p.Images, url)
}

// deleteObjects removes a stored rendition and its JPEG fallback. Failures
// only leave orphaned objects behind, so they are logged.
func (s *ImageService) deleteObjects(ctx context.Context, url string) {
	key, ok := s.store.KeyFor(url)
	if !ok {
		return
	}
	keys := []string{key}
	if strings.HasSuffix(key, ".webp") {
		keys = append(keys, strings.TrimSuffix(key, ".webp")+".jpg")
	}
	for _, k := range keys {
		if err := s.store.Delete(ctx, k); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete image object",
				slog.String("key", k), slog.String("error", err.Error()))
		}
	}
}

func imageKey(userID uuid.UUID, hash, ext string) string {
	return fmt.Sprintf("profiles/%s/%s.%s", userID, hash, ext)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// centerSquare returns the largest centered square inside a w×h image.
func centerSquare(w, h int) (cropX, cropY, side int) {
	side = w
	if h < side {
		side = h
	}
	if side < 1 {
		side = 1
	}
	return (w - side) / 2, (h - side) / 2, side
}

func cropToRect(src image.Image, x, y, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func buildDeterministicImageHash(userID uuid.UUID, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
