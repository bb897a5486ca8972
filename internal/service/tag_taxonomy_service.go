package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/aryan0dhankhar/projectmatch/internal/domain"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/metrics"
	"github.com/aryan0dhankhar/projectmatch/internal/observability/tracing"
)

// TagTypeService manages tag type registration and renames
type TagTypeService struct {
	store  domain.Store
	logger *slog.Logger
}

// NewTagTypeService creates a new tag type service
func NewTagTypeService(store domain.Store, logger *slog.Logger) *TagTypeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagTypeService{store: store, logger: logger}
}

// Register creates a tag type with a unique name
func (s *TagTypeService) Register(ctx context.Context, name string) (_ *domain.TagType, err error) {
	ctx, span := tracing.Start(ctx, "TagTypeService.Register")
	defer func() {
		metrics.ObserveOperation("tag_type", "register", err)
		tracing.End(span, err)
	}()

	taken, err := s.store.TagTypes().ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewConflict("Tag type already registered")
	}

	tagType := &domain.TagType{Name: name}
	if err := s.store.TagTypes().Create(ctx, tagType); err != nil {
		return nil, err
	}
	s.logger.Info("tag type registered", slog.Int64("tag_type_id", tagType.ID))
	return tagType, nil
}

// Edit renames a tag type. The duplicate check includes the record itself,
// so resubmitting the current name is a Conflict.
func (s *TagTypeService) Edit(ctx context.Context, id int64, name string) (_ *domain.TagType, err error) {
	ctx, span := tracing.Start(ctx, "TagTypeService.Edit", attribute.Int64("tag_type.id", id))
	defer func() {
		metrics.ObserveOperation("tag_type", "edit", err)
		tracing.End(span, err)
	}()

	var tagType *domain.TagType
	err = s.store.WithinTx(ctx, func(tx domain.Store) error {
		taken, err := tx.TagTypes().ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewConflict("Tag type already registered")
		}

		t, err := tx.TagTypes().GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Tag type not found")
		}
		t.Name = name
		if err := tx.TagTypes().Update(ctx, t); err != nil {
			return notFound(err, "Tag type not found")
		}
		tagType = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tag type edited", slog.Int64("tag_type_id", id))
	return tagType, nil
}

// TagValueService manages the values registered under each tag type
type TagValueService struct {
	store  domain.Store
	logger *slog.Logger
}

// NewTagValueService creates a new tag value service
func NewTagValueService(store domain.Store, logger *slog.Logger) *TagValueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagValueService{store: store, logger: logger}
}

// checkValue enforces per-type uniqueness and that the type exists
func checkValue(ctx context.Context, tx domain.Store, value string, tagTypeID int64) error {
	taken, err := tx.TagValues().ExistsByValueAndType(ctx, value, tagTypeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.NewConflict("Tag value already registered")
	}
	typeExists, err := tx.TagTypes().ExistsByID(ctx, tagTypeID)
	if err != nil {
		return err
	}
	if !typeExists {
		return domain.NewConflict("Tag type is invalid")
	}
	return nil
}

// Register creates a tag value under an existing tag type
func (s *TagValueService) Register(ctx context.Context, tagTypeID int64, value string) (_ *domain.TagValue, err error) {
	ctx, span := tracing.Start(ctx, "TagValueService.Register", attribute.Int64("tag_type.id", tagTypeID))
	defer func() {
		metrics.ObserveOperation("tag_value", "register", err)
		tracing.End(span, err)
	}()

	if err := checkValue(ctx, s.store, value, tagTypeID); err != nil {
		return nil, err
	}
	tagValue := &domain.TagValue{TagTypeID: tagTypeID, Value: value}
	if err := s.store.TagValues().Create(ctx, tagValue); err != nil {
		return nil, err
	}
	s.logger.Info("tag value registered",
		slog.Int64("tag_value_id", tagValue.ID),
		slog.Int64("tag_type_id", tagTypeID),
	)
	return tagValue, nil
}

// Edit rewrites the value and type of an existing tag value
func (s *TagValueService) Edit(ctx context.Context, id, tagTypeID int64, value string) (_ *domain.TagValue, err error) {
	ctx, span := tracing.Start(ctx, "TagValueService.Edit", attribute.Int64("tag_value.id", id))
	defer func() {
		metrics.ObserveOperation("tag_value", "edit", err)
		tracing.End(span, err)
	}()

	var tagValue *domain.TagValue
	err = s.store.WithinTx(ctx, func(tx domain.Store) error {
		if err := checkValue(ctx, tx, value, tagTypeID); err != nil {
			return err
		}
		v, err := tx.TagValues().GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "Tag value not found")
		}
		v.TagTypeID = tagTypeID
		v.Value = value
		if err := tx.TagValues().Update(ctx, v); err != nil {
			return notFound(err, "Tag value not found")
		}
		tagValue = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tag value edited", slog.Int64("tag_value_id", id))
	return tagValue, nil
}

// List returns every tag value ordered by its type name
func (s *TagValueService) List(ctx context.Context) (_ []*domain.TagValue, err error) {
	ctx, span := tracing.Start(ctx, "TagValueService.List")
	defer func() { tracing.End(span, err) }()

	return s.store.TagValues().ListOrderedByType(ctx)
}
