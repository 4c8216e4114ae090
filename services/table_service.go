package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/mesa-backend/models"
	"github.com/yeremiapane/mesa-backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var mesaSelect = []string{"id", "numero", "capacity", "location"}

// mesaUpdatableFields maps update payload keys to their columns.
var mesaUpdatableFields = map[string]string{
	"numero":   "numero",
	"capacity": "capacity",
	"location": "location",
}

// MaxTableRange caps how many tables a single range create may insert.
const MaxTableRange = 1000

type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

// List returns the restaurant's active tables ordered by numero. Search keys
// are validated before anything touches the database.
func (s *TableService) List(ctx context.Context, query models.TableQuery) (*models.PaginationResponse[models.MesaResponse], error) {
	skip, take := utils.CalculatePagination(query.Page, query.Limit)

	if err := utils.ValidateSearchFields(mesaSearchFields, query.Search); err != nil {
		return nil, err
	}

	where, err := s.listConditions(query)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Mesa{}).Clauses(where).Count(&total).Error; err != nil {
		return nil, err
	}

	limit := int(total)
	if take != nil {
		limit = *take
	}

	var tables []models.MesaResponse
	err = db.Model(&models.Mesa{}).
		Clauses(where).
		Select(mesaSelect).
		Order(clause.OrderByColumn{Column: mesaColumn("numero")}).
		Offset(skip).
		Limit(limit).
		Find(&tables).Error
	if err != nil {
		return nil, err
	}

	page, responseLimit := utils.NormalizePaginationResponse(query.Page, query.Limit, total)
	return models.NewPaginationResponse(tables, total, page, responseLimit), nil
}

func (s *TableService) listConditions(query models.TableQuery) (clause.Where, error) {
	exprs := []clause.Expression{
		clause.Eq{Column: mesaColumn("delete"), Value: false},
		clause.Eq{Column: mesaColumn("restaurant_cnpj"), Value: query.Cnpj},
	}

	dialect := s.DB.Dialector.Name()
	for key, value := range query.Search {
		expr, err := mesaSearchFields[key](dialect, value)
		if err != nil {
			return clause.Where{}, err
		}
		exprs = append(exprs, expr)
	}

	if query.MesaNumber != "" {
		numero, err := strconv.Atoi(strings.TrimSpace(query.MesaNumber))
		if err != nil {
			return clause.Where{}, fmt.Errorf("%w: mesaNumber %q is not a number", utils.ErrValidation, query.MesaNumber)
		}
		exprs = append(exprs, clause.Eq{Column: mesaColumn("numero"), Value: numero})
	}

	return clause.Where{Exprs: exprs}, nil
}

// FindOne returns nil without error when no active table matches.
func (s *TableService) FindOne(ctx context.Context, numero int, cnpj string) (*models.MesaResponse, error) {
	var table models.MesaResponse
	err := s.DB.WithContext(ctx).
		Model(&models.Mesa{}).
		Select(mesaSelect).
		Where(map[string]interface{}{
			"numero":          numero,
			"delete":          false,
			"restaurant_cnpj": cnpj,
		}).
		Take(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// Create inserts one table, or one per number in [input.Numero, endNumber]
// when endNumber is greater than input.Numero. Range inserts run one by one
// outside a transaction: on failure earlier rows stay committed and only the
// error is returned.
func (s *TableService) Create(ctx context.Context, input models.MesaInput, cnpj string, endNumber *int) ([]models.MesaResponse, error) {
	if endNumber != nil && *endNumber > input.Numero && uint64(*endNumber-input.Numero) >= MaxTableRange {
		return nil, fmt.Errorf("%w: a range may create at most %d tables", utils.ErrValidation, MaxTableRange)
	}

	db := s.DB.WithContext(ctx)

	var restaurant models.Restaurant
	if err := db.Select("cnpj").Where("cnpj = ?", cnpj).Take(&restaurant).Error; err != nil {
		return nil, err
	}

	var base models.Mesa
	if err := copier.Copy(&base, &input); err != nil {
		return nil, err
	}
	base.ID = ""
	base.Delete = false
	base.RestaurantCnpj = cnpj

	if endNumber == nil || *endNumber <= input.Numero {
		table := base
		if err := db.Create(&table).Error; err != nil {
			return nil, err
		}
		utils.InfoLogger.WithFields(logrus.Fields{
			"cnpj":   cnpj,
			"numero": table.Numero,
			"id":     table.ID,
		}).Info("table created")
		return []models.MesaResponse{table.Response()}, nil
	}

	var tables []models.MesaResponse
	for i := input.Numero; i <= *endNumber; i++ {
		table := base
		table.Numero = i
		if err := db.Create(&table).Error; err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"cnpj":    cnpj,
				"numero":  i,
				"created": len(tables),
			}).Errorf("range create stopped: %v", err)
			return nil, err
		}
		tables = append(tables, table.Response())
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"cnpj": cnpj,
		"from": input.Numero,
		"to":   *endNumber,
	}).Info("table range created")
	return tables, nil
}

// Update applies a partial update by id. endNumber is part of the create
// payload shape and is dropped here.
func (s *TableService) Update(ctx context.Context, data map[string]interface{}, id string) (*models.MesaResponse, error) {
	table, err := s.UpdateRow(ctx, data, id)
	if err != nil {
		return nil, err
	}
	response := table.Response()
	return &response, nil
}

// UpdateRow is Update returning the full row, owner included.
func (s *TableService) UpdateRow(ctx context.Context, data map[string]interface{}, id string) (*models.Mesa, error) {
	columns, err := mesaUpdateColumns(data)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	if len(columns) > 0 {
		if err := db.Model(&models.Mesa{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return nil, err
		}
	}

	var table models.Mesa
	if err := db.Where("id = ?", id).Take(&table).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"id": id, "cnpj": table.RestaurantCnpj}).Info("table updated")
	return &table, nil
}

// Delete flags the table as deleted and returns the full row.
func (s *TableService) Delete(ctx context.Context, id string) (*models.Mesa, error) {
	db := s.DB.WithContext(ctx)
	if err := db.Model(&models.Mesa{}).Where("id = ?", id).Update("delete", true).Error; err != nil {
		return nil, err
	}

	var table models.Mesa
	if err := db.Where("id = ?", id).Take(&table).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{"id": id, "cnpj": table.RestaurantCnpj}).Info("table deleted")
	return &table, nil
}

func mesaUpdateColumns(data map[string]interface{}) (map[string]interface{}, error) {
	columns := make(map[string]interface{}, len(data))
	for key, value := range data {
		if key == "endNumber" {
			continue
		}
		column, ok := mesaUpdatableFields[key]
		if !ok {
			return nil, fmt.Errorf("%w: field %q cannot be updated", utils.ErrValidation, key)
		}
		switch column {
		case "location":
			text, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %q expects text", utils.ErrValidation, key)
			}
			columns[column] = text
		default:
			n, ok := wholeNumber(value)
			if !ok {
				return nil, fmt.Errorf("%w: field %q expects a whole number", utils.ErrValidation, key)
			}
			columns[column] = n
		}
	}
	return columns, nil
}

func wholeNumber(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}
