package repository_test

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gribova.dev/Foodgram/configs"
	"gribova.dev/Foodgram/pkg/model"
	"gribova.dev/Foodgram/pkg/repository"
)

// RepositorySuite runs every repository test against a fresh in-memory
// sqlite database so constraint behavior is exercised for real.
type RepositorySuite struct {
	suite.Suite
	repository   *repository.Repository
	observedLogs *observer.ObservedLogs
	colorSeq     int
}

func (suite *RepositorySuite) SetupTest() {
	var observedZapCore zapcore.Core
	observedZapCore, suite.observedLogs = observer.New(zap.InfoLevel)
	observedLogger := zap.New(observedZapCore)

	conf := &configs.Config{}
	conf.DB.DSN = "sqlite://:memory:"
	conf.DB.MaxIdleConnections = 1
	conf.DB.MaxOpenConnections = 1

	repo, err := repository.Open(conf, observedLogger)
	suite.Require().NoError(err)

	err = repo.DB.AutoMigrate(
		&model.User{}, &model.Follow{},
		&model.Tag{}, &model.Ingredient{},
		&model.Recipe{}, &model.IngredientInRecipe{},
		&model.Favorite{}, &model.CartItem{})
	suite.Require().NoError(err)

	suite.repository = repo
}

func (suite *RepositorySuite) TearDownTest() {
	suite.repository.Close()
}

func (suite *RepositorySuite) addUser(username string) *model.User {
	user, err := suite.repository.AddUser(context.Background(), model.User{
		Username:  username,
		Email:     fmt.Sprintf("%s@example.com", username),
		FirstName: "Test",
		LastName:  "User",
	})
	suite.Require().NoError(err)

	return user
}

func (suite *RepositorySuite) addTag(slug string) model.Tag {
	suite.colorSeq++
	tag := model.Tag{Name: slug, Color: fmt.Sprintf("#%06x", suite.colorSeq), Slug: slug}
	suite.Require().NoError(suite.repository.DB.Create(&tag).Error)

	return tag
}

func (suite *RepositorySuite) addIngredient(name string, unit string) model.Ingredient {
	ingredient := model.Ingredient{Name: name, MeasurementUnit: unit}
	suite.Require().NoError(suite.repository.DB.Create(&ingredient).Error)

	return ingredient
}

func (suite *RepositorySuite) addRecipe(author *model.User, name string, tag model.Tag, entries ...model.IngredientInRecipe) *model.Recipe {
	recipe, err := suite.repository.CreateRecipe(context.Background(), model.Recipe{
		Name:        name,
		AuthorID:    author.ID,
		Text:        "cook it",
		Image:       "media/recipes/images/test.png",
		CookingTime: 10,
	}, []model.Tag{tag}, entries)
	suite.Require().NoError(err)

	return recipe
}
