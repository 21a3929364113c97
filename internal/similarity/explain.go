package similarity

import "movierec/internal/models"

var infos = map[Method]models.MethodInfo{
	Cosine: {
		Name:        string(Cosine),
		Explanation: "Similitud de coseno: mide el ángulo entre vectores de ratings",
		Range:       "0-1",
		BestFor:     "Datos dispersos, no afectada por magnitud",
		Formula:     "1 - cosine(vector1, vector2)",
	},
	Euclidean: {
		Name:        string(Euclidean),
		Explanation: "Distancia euclidiana: mide la distancia directa entre vectores",
		Range:       "0-1",
		BestFor:     "Datos densos, comparaciones directas",
		Formula:     "1 / (1 + euclidean(vector1, vector2))",
	},
	Manhattan: {
		Name:        string(Manhattan),
		Explanation: "Distancia Manhattan: mide la suma de diferencias absolutas",
		Range:       "0-1",
		BestFor:     "Datos con ruido, robusta a outliers",
		Formula:     "1 / (1 + cityblock(vector1, vector2))",
	},
	Pearson: {
		Name:        string(Pearson),
		Explanation: "Correlación de Pearson: mide la correlación lineal entre vectores",
		Range:       "-1 to 1",
		BestFor:     "Tendencias lineales, correlaciones",
		Formula:     "pearsonr(vector1, vector2)[0]",
	},
}

// Info describe la métrica para /api/methods.
func Info(m Method) models.MethodInfo {
	if info, ok := infos[m]; ok {
		return info
	}
	return models.MethodInfo{Name: string(m), Explanation: "Método no reconocido"}
}

// Explanation texto corto de la métrica.
func Explanation(m Method) string {
	return Info(m).Explanation
}
