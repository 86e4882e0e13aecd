package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/aritzberg/wildsight/internal/core/domain"
	"github.com/aritzberg/wildsight/internal/pkg/geospatial"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	sightingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Sighting",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"species_id": &graphql.Field{Type: graphql.Int},
			"den_id":     &graphql.Field{Type: graphql.String},
			"location":   &graphql.Field{Type: geoPointType},
			"expires_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	speciesCountType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SpeciesCount",
		Fields: graphql.Fields{
			"species_id": &graphql.Field{Type: graphql.Int},
			"count":      &graphql.Field{Type: graphql.Int},
		},
	})

	appearanceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Appearance",
		Fields: graphql.Fields{
			"location":   &graphql.Field{Type: geoPointType},
			"species_id": &graphql.Field{Type: graphql.Int},
			"variant":    &graphql.Field{Type: graphql.Int},
			"den_id":     &graphql.Field{Type: graphql.String},
			"count":      &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"sightingsNearby": &graphql.Field{
				Type:        graphql.NewList(sightingType),
				Description: "Active sightings near a location",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)

					minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radius)
					v := domain.Viewport{Bounds: &domain.Bounds{
						MinLat: minLat, MinLon: minLon,
						MaxLat: maxLat, MaxLon: maxLon,
					}}

					sightings, err := deps.Sightings.Active(p.Context, v, domain.SightingFilter{})
					if err != nil {
						return nil, err
					}

					var out []domain.Sighting
					for _, s := range sightings {
						if geospatial.Haversine(lat, lon, s.Location.Lat, s.Location.Lon) <= radius {
							out = append(out, s)
						}
					}
					return out, nil
				},
			},
			"speciesCounts": &graphql.Field{
				Type:        graphql.NewList(speciesCountType),
				Description: "Per-species sighting totals over a trailing window",
				Args: graphql.FieldConfigArgument{
					"hours": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					hours := p.Args["hours"].(int)
					counts, err := deps.Stats.SpeciesCounts(p.Context, hours)
					if err != nil {
						return nil, err
					}
					return counts.Species, nil
				},
			},
			"appearances": &graphql.Field{
				Type:        graphql.NewList(appearanceType),
				Description: "Per-den appearance aggregates for one species",
				Args: graphql.FieldConfigArgument{
					"species_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"hours":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					speciesID := p.Args["species_id"].(int)
					hours := p.Args["hours"].(int)
					return deps.Stats.Appearances(p.Context, speciesID, nil, hours)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
