package paddocks

import (
	"context"

	geojson "github.com/paulmach/go.geojson"

	"pasture-rotation/internal/domain/geometry"
)

// FarmMap arma una FeatureCollection con un Feature por potrero de la finca.
// Los potreros cuyo lindero guardado ya no es válido se omiten.
func (s *Service) FarmMap(ctx context.Context, farmID string) (*geojson.FeatureCollection, error) {
	views, err := s.List(ctx, farmID)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, v := range views {
		poly, err := geometry.NewPolygon(v.Paddock.Vertices)
		if err != nil {
			continue
		}
		f := geojson.NewFeature(geometry.GeoJSON(poly))
		f.ID = v.Paddock.ID
		f.SetProperty("name", v.Paddock.Name)
		f.SetProperty("pasture_type", string(v.Paddock.PastureType))
		f.SetProperty("status", string(v.Status.Status))
		f.SetProperty("area_hectares", v.Geometry.AreaHectares)
		if v.Paddock.LotID != nil {
			f.SetProperty("lot_id", *v.Paddock.LotID)
		}
		fc.AddFeature(f)
	}
	return fc, nil
}
