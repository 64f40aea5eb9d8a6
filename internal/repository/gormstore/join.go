package gormstore

import (
	"context"

	"gymhero/training-api/internal/domain"
	"gymhero/training-api/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// JoinTable implements repository.JoinRepository for a join model M whose
// composite primary key is (parentCol, childCol).
type JoinTable[M any] struct {
	db        *gorm.DB
	parentCol string
	childCol  string
	newLink   func(parentID, childID int64) *M
	log       zerolog.Logger
}

// NewJoinTable creates a join repository. newLink builds the row for a pair.
func NewJoinTable[M any](db *gorm.DB, parentCol, childCol string, newLink func(parentID, childID int64) *M, log zerolog.Logger) *JoinTable[M] {
	return &JoinTable[M]{
		db:        db,
		parentCol: parentCol,
		childCol:  childCol,
		newLink:   newLink,
		log:       log.With().Str("join", parentCol+"/"+childCol).Logger(),
	}
}

var _ repository.JoinRepository = (*JoinTable[domain.TrainingPlanUnit])(nil)

func (j *JoinTable[M]) pair(parentID, childID int64) map[string]any {
	return map[string]any{j.parentCol: parentID, j.childCol: childID}
}

func (j *JoinTable[M]) Exists(ctx context.Context, parentID, childID int64) (bool, error) {
	var n int64
	err := conn(ctx, j.db).Model(new(M)).Where(j.pair(parentID, childID)).Count(&n).Error
	if err != nil {
		return false, translate(err, opRead)
	}
	return n > 0, nil
}

func (j *JoinTable[M]) InsertPair(ctx context.Context, parentID, childID int64) error {
	j.log.Debug().Int64("parent", parentID).Int64("child", childID).Msg("inserting pair")
	if err := conn(ctx, j.db).Create(j.newLink(parentID, childID)).Error; err != nil {
		return translate(err, opWrite)
	}
	return nil
}

func (j *JoinTable[M]) DeletePair(ctx context.Context, parentID, childID int64) (bool, error) {
	j.log.Debug().Int64("parent", parentID).Int64("child", childID).Msg("deleting pair")
	res := conn(ctx, j.db).Where(j.pair(parentID, childID)).Delete(new(M))
	if res.Error != nil {
		return false, translate(res.Error, opDelete)
	}
	return res.RowsAffected > 0, nil
}

func (j *JoinTable[M]) ChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	ids := make([]int64, 0)
	err := conn(ctx, j.db).Model(new(M)).
		Where(map[string]any{j.parentCol: parentID}).
		Order("created_at, " + j.childCol).
		Pluck(j.childCol, &ids).Error
	if err != nil {
		return nil, translate(err, opRead)
	}
	return ids, nil
}

func (j *JoinTable[M]) DeleteByParent(ctx context.Context, parentID int64) error {
	err := conn(ctx, j.db).Where(map[string]any{j.parentCol: parentID}).Delete(new(M)).Error
	return translate(err, opDelete)
}

func (j *JoinTable[M]) DeleteByChild(ctx context.Context, childID int64) error {
	err := conn(ctx, j.db).Where(map[string]any{j.childCol: childID}).Delete(new(M)).Error
	return translate(err, opDelete)
}
