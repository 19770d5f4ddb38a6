package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"

	"gribova.dev/Foodgram/configs"
	"gribova.dev/Foodgram/pkg/model"
	"gribova.dev/Foodgram/pkg/repository"
)

// ImportCmd seeds the ingredient and tag catalogs from JSON files,
// skipping rows that already exist.
type ImportCmd struct {
	ConfigFile  string `default:".Foodgram.toml" help:"Path to config file" short:"c"`
	Ingredients string `help:"Path to an ingredients JSON file" type:"existingfile" optional:""`
	Tags        string `help:"Path to a tags JSON file" type:"existingfile" optional:""`
}

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagRecord struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

var colorPattern = regexp.MustCompile(`^#[a-fA-F0-9]{6}$`)

func (i *ImportCmd) Run(_ *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(i.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Fatal("error connecting to database")
	}
	defer repo.Close()

	ctx := context.Background()

	if i.Ingredients != "" {
		if err := importIngredients(ctx, repo, i.Ingredients, logger); err != nil {
			return err
		}
	}

	if i.Tags != "" {
		if err := importTags(ctx, repo, i.Tags, logger); err != nil {
			return err
		}
	}

	return nil
}

func importIngredients(ctx context.Context, repo *repository.Repository, path string, logger *zap.Logger) error {
	var records []ingredientRecord
	if err := loadJSON(path, &records); err != nil {
		return err
	}

	ingredients := make([]model.Ingredient, 0, len(records))
	for _, record := range records {
		ingredients = append(ingredients, model.Ingredient{
			Name:            record.Name,
			MeasurementUnit: record.MeasurementUnit,
		})
	}

	imported, err := repo.ImportIngredients(ctx, ingredients)
	if err != nil {
		return err
	}

	logger.Info("imported ingredients", zap.String("file", path), zap.Int64("rows", imported))

	return nil
}

func importTags(ctx context.Context, repo *repository.Repository, path string, logger *zap.Logger) error {
	var records []tagRecord
	if err := loadJSON(path, &records); err != nil {
		return err
	}

	tags := make([]model.Tag, 0, len(records))

	for _, record := range records {
		if !colorPattern.MatchString(record.Color) {
			return fmt.Errorf("tag %q: color %q is not an #rrggbb code", record.Slug, record.Color)
		}

		tags = append(tags, model.Tag{
			Name:  record.Name,
			Color: record.Color,
			Slug:  record.Slug,
		})
	}

	imported, err := repo.ImportTags(ctx, tags)
	if err != nil {
		return err
	}

	logger.Info("imported tags", zap.String("file", path), zap.Int64("rows", imported))

	return nil
}

func loadJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}
