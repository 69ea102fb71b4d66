package photo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"drycleaning/internal/domain/order"
)

const presignTTL = time.Hour

type UploadInput struct {
	OrderID    int64
	ItemID     int64
	OperatorID int64
	FileName   string
	Body       io.Reader
}

type Service struct {
	db      *gorm.DB
	storage Storage
	rules   order.Rules
	log     *zap.Logger
}

func NewService(db *gorm.DB, storage Storage, rules order.Rules, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, storage: storage, rules: rules, log: log}
}

// Upload stores a photo of an order item after checking the per-item limits.
// The content type is sniffed from the bytes, never taken from the client.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*ItemPhoto, error) {
	if err := s.checkItem(ctx, in.OrderID, in.ItemID); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(io.LimitReader(in.Body, s.rules.MaxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}
	mimeType := strings.Split(http.DetectContentType(content), ";")[0]

	var existing []ItemPhoto
	if err := s.db.WithContext(ctx).Where("order_item_id = ?", in.ItemID).Find(&existing).Error; err != nil {
		return nil, err
	}
	metas := make([]order.PhotoMeta, 0, len(existing)+1)
	for _, p := range existing {
		metas = append(metas, order.PhotoMeta{FileName: p.FileName, MimeType: p.MimeType, Size: p.Size})
	}
	name := filepath.Base(in.FileName)
	metas = append(metas, order.PhotoMeta{FileName: name, MimeType: mimeType, Size: int64(len(content))})
	if err := s.rules.ValidatePhotos(metas).Err(); err != nil {
		return nil, err
	}

	p := &ItemPhoto{
		ID:          uuid.NewString(),
		OrderID:     in.OrderID,
		OrderItemID: in.ItemID,
		FileName:    name,
		MimeType:    mimeType,
		Size:        int64(len(content)),
		OperatorID:  in.OperatorID,
	}
	p.ObjectKey = fmt.Sprintf("orders/%d/items/%d/%s%s", in.OrderID, in.ItemID, p.ID, extension(mimeType))

	if err := s.storage.Put(ctx, p.ObjectKey, mimeType, content); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if delErr := s.storage.Delete(ctx, p.ObjectKey); delErr != nil {
			s.log.Warn("orphaned photo object", zap.String("key", p.ObjectKey), zap.Error(delErr))
		}
		return nil, err
	}

	s.log.Info("item photo stored",
		zap.Int64("order_id", in.OrderID),
		zap.Int64("item_id", in.ItemID),
		zap.String("photo_id", p.ID),
		zap.Int64("size", p.Size),
	)
	s.attachURL(ctx, p)
	return p, nil
}

func (s *Service) List(ctx context.Context, orderID, itemID int64) ([]ItemPhoto, error) {
	var photos []ItemPhoto
	err := s.db.WithContext(ctx).
		Where("order_id = ? AND order_item_id = ?", orderID, itemID).
		Order("created_at").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	for i := range photos {
		s.attachURL(ctx, &photos[i])
	}
	return photos, nil
}

func (s *Service) Delete(ctx context.Context, orderID, itemID int64, photoID string) error {
	if err := s.checkItem(ctx, orderID, itemID); err != nil {
		return err
	}

	var p ItemPhoto
	err := s.db.WithContext(ctx).
		Where("id = ? AND order_item_id = ?", photoID, itemID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPhotoNotFound
	}
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&p).Error; err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, p.ObjectKey); err != nil {
		s.log.Warn("photo object not deleted", zap.String("key", p.ObjectKey), zap.Error(err))
	}
	return nil
}

// checkItem makes sure the item belongs to an order that is still open.
func (s *Service) checkItem(ctx context.Context, orderID, itemID int64) error {
	var item order.OrderItem
	err := s.db.WithContext(ctx).Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrItemNotFound
	}
	if err != nil {
		return err
	}

	var o order.Order
	if err := s.db.WithContext(ctx).Select("id", "status").First(&o, orderID).Error; err != nil {
		return err
	}
	if o.Status.Terminal() {
		return ErrOrderClosed
	}
	return nil
}

func (s *Service) attachURL(ctx context.Context, p *ItemPhoto) {
	url, err := s.storage.PresignGet(ctx, p.ObjectKey, presignTTL)
	if err != nil {
		s.log.Warn("presign photo failed", zap.String("key", p.ObjectKey), zap.Error(err))
		return
	}
	p.URL = url
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
