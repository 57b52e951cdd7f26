package properties

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"staycal/internal/app/bus"
	"staycal/internal/app/datasource"
	"staycal/internal/app/dto"
	"staycal/internal/app/handlers/support"
	"staycal/internal/app/policies"
)

const setImageKey = "properties.set_image"

var (
	ErrImageStoreUnavailable = errors.New("image storage is not configured")
	ErrUnsupportedImageType  = errors.New("unsupported image type")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type SetImageCommand struct {
	Principal   datasource.Principal
	PropertyID  string `validate:"required"`
	ContentType string `validate:"required"`
	Size        int64  `validate:"gt=0"`
	Body        io.Reader
}

func (SetImageCommand) Key() string { return setImageKey }

type SetImageHandler struct {
	Sources datasource.Resolver
	Images  policies.ImageStore
	Logger  *slog.Logger
}

func (h *SetImageHandler) Handle(ctx context.Context, cmd SetImageCommand) (dto.Property, error) {
	if h.Images == nil {
		return dto.Property{}, ErrImageStoreUnavailable
	}
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(cmd.ContentType))]
	if !ok {
		return dto.Property{}, fmt.Errorf("%w: %s", ErrUnsupportedImageType, cmd.ContentType)
	}
	ds, err := support.Source(h.Sources, cmd.Principal)
	if err != nil {
		return dto.Property{}, err
	}
	prop, err := support.OwnedProperty(ctx, ds, cmd.Principal, cmd.PropertyID)
	if err != nil {
		return dto.Property{}, err
	}
	key := path.Join("properties", string(prop.ID), uuid.NewString()+ext)
	url, err := h.Images.Upload(ctx, key, cmd.Body, cmd.Size, cmd.ContentType)
	if err != nil {
		return dto.Property{}, fmt.Errorf("upload image: %w", err)
	}
	prop.SetImage(url, time.Now())
	if err := ds.SaveProperty(ctx, prop); err != nil {
		return dto.Property{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("property image stored", "property_id", prop.ID, "key", key)
	}
	return dto.MapProperty(prop), nil
}

var _ bus.Handler[SetImageCommand, dto.Property] = (*SetImageHandler)(nil)
