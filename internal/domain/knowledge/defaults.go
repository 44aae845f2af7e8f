package knowledge

const symHeadache = "dolor de cabeza"

// Built-in red flags. Any matched red flag escalates the recommendation.
const (
	RedFlagBreathing     = "dificultad para respirar"
	RedFlagChestPain     = "dolor de pecho"
	RedFlagConsciousness = "perdida de conciencia"
)

// Default builds the built-in Spanish knowledge base.
func Default() (*Base, error) {
	return New(DefaultSpec())
}

// DefaultSpec returns the built-in knowledge base definition. Each call returns fresh
// maps and slices, so callers may extend it before passing it to New.
func DefaultSpec() Spec {
	return Spec{
		Conditions:        defaultConditions(),
		Synonyms:          defaultSynonyms(),
		Stopwords:         defaultStopwords(),
		RedFlags:          []string{RedFlagBreathing, RedFlagChestPain, RedFlagConsciousness},
		NegationMarkers:   []string{"no", "sin", "nunca", "jamás"},
		AffirmativeIdioms: defaultAffirmativeIdioms(),
	}
}

func defaultConditions() []ConditionSpec {
	return []ConditionSpec{
		// Respiratorias
		{
			Name:           "Resfriado",
			Recommendation: "Hidratación, descanso, analgésicos/antitérmicos si procede.",
			Symptoms: []SymptomWeight{
				{"tos", 0.35},
				{"congestion", 0.30},
				{"goteo nasal", 0.25},
				{"dolor de garganta", 0.25},
				{"estornudos", 0.20},
				{"fiebre", 0.15},
				{"malestar", 0.20},
			},
		},
		{
			Name:           "Gripe",
			Recommendation: "Reposo, hidratación; consultar si fiebre alta o dificultad respiratoria.",
			Symptoms: []SymptomWeight{
				{"fiebre", 0.45},
				{"escalofrios", 0.25},
				{"dolor muscular", 0.30},
				{"tos", 0.25},
				{"cansancio", 0.30},
				{symHeadache, 0.25},
			},
		},
		{
			Name:           "COVID-19",
			Recommendation: "Prueba diagnóstica, aislamiento, mascarilla; consultar ante empeoramiento.",
			Symptoms: []SymptomWeight{
				{"fiebre", 0.35},
				{"tos", 0.35},
				{"falta de aire", 0.35},
				{"perdida de olfato", 0.40},
				{"perdida de gusto", 0.40},
				{"dolor de garganta", 0.20},
				{"dolor muscular", 0.20},
				{RedFlagBreathing, 0.35},
			},
		},
		{
			Name:           "Neumonía",
			Recommendation: "Consulte a un profesional de salud en las próximas horas; puede requerir radiografía de tórax.",
			Symptoms: []SymptomWeight{
				{"fiebre", 0.35},
				{"tos", 0.35},
				{RedFlagBreathing, 0.45},
				{RedFlagChestPain, 0.25},
				{"escalofrios", 0.20},
				{"cansancio", 0.20},
			},
		},
		// Cefaleas
		{
			Name:           "Migraña",
			Recommendation: "Descanso en lugar oscuro, hidratación, medicación pautada si la hay.",
			Symptoms: []SymptomWeight{
				{symHeadache, 0.50},
				{"nauseas", 0.30},
				{"fotofobia", 0.35},
				{"fonofobia", 0.25},
				{"aura", 0.30},
			},
		},
		{
			Name:           "Cefalea tensional",
			Recommendation: "Higiene postural, pausas activas, técnicas de relajación.",
			Symptoms: []SymptomWeight{
				{symHeadache, 0.45},
				{"estres", 0.30},
				{"tension cuello", 0.30},
				{"postura", 0.20},
			},
		},
		// Gastro
		{
			Name:           "Gastroenteritis",
			Recommendation: "Hidratación oral fraccionada, dieta blanda; vigilar signos de deshidratación.",
			Symptoms: []SymptomWeight{
				{"nauseas", 0.35},
				{"vomitos", 0.40},
				{"diarrea", 0.45},
				{"dolor abdominal", 0.35},
				{"fiebre", 0.20},
			},
		},
		// Cardiovasculares
		{
			Name:           "Angina de pecho",
			Recommendation: "Acuda a urgencias si el dolor es opresivo, se irradia o dura más de unos minutos.",
			Symptoms: []SymptomWeight{
				{RedFlagChestPain, 0.40},
				{"falta de aire", 0.25},
				{"sudoracion", 0.25},
				{"nauseas", 0.15},
				{"palpitaciones", 0.25},
				{"mareo", 0.15},
			},
		},
		{
			Name:           "Síncope",
			Recommendation: "Recuéstese con las piernas elevadas y solicite evaluación médica.",
			Symptoms: []SymptomWeight{
				{RedFlagConsciousness, 0.50},
				{"mareo", 0.35},
				{"palpitaciones", 0.25},
				{"vision borrosa", 0.20},
				{"sudoracion", 0.15},
			},
		},
	}
}

func defaultSynonyms() map[string]string {
	groups := map[string][]string{
		symHeadache:           {"cabeza", "jaqueca", "cefalea", "migraña"},
		"fiebre":              {"calentura", "temperatura", "febrícula", "fiebre alta", "afiebrado", "afiebrada"},
		"goteo nasal":         {"moco", "mocos", "nariz que gotea", "goteo"},
		"congestion":          {"nariz tapada", "taponada", "tapada", "congestionado", "congestionada"},
		"dolor de garganta":   {"garganta", "tragar", "carraspera"},
		"estornudos":          {"estornudo", "estornudar", "estornudando"},
		"falta de aire":       {"aire", "ahogo", "ahogado", "ahogada", "disnea", "falta el aire", "asfixia"},
		RedFlagBreathing:      {"respirar", "respiro", "respiración"},
		RedFlagChestPain:      {"pecho", "tórax"},
		RedFlagConsciousness:  {"desmayo", "desmayé", "desmayarme", "conocimiento", "inconsciente", "desvanecimiento"},
		"mareo":               {"mareado", "mareada", "mareos", "vértigo"},
		"palpitaciones":       {"taquicardia", "corazón acelerado", "palpitación"},
		"sudoracion":          {"sudor", "sudores", "sudando", "sudor frío"},
		"vision borrosa":      {"borrosa", "borroso", "veo borroso"},
		"dolor abdominal":     {"panza", "estómago", "barriga", "tripa", "abdomen", "vientre", "guata"},
		"vomitos":             {"vómito", "vomitar", "vomitando", "vomité", "devolver"},
		"nauseas":             {"náusea", "asco", "ganas de vomitar", "revuelto", "revuelta"},
		"diarrea":             {"suelto", "cagarrinas", "baño", "descompuesto", "diarreas"},
		"malestar":            {"cuerpo cortado", "mal cuerpo", "decaimiento", "decaído", "decaída"},
		"cansancio":           {"cansado", "cansada", "fatiga", "agotado", "agotada", "debilidad", "fuerzas"},
		"escalofrios":         {"frío", "tiritona", "escalofrío", "temblores", "tiritando"},
		"dolor muscular":      {"músculos", "huesos", "agujetas", "cuerpo dolorido"},
		"fotofobia":           {"luz", "claridad", "brillo"},
		"fonofobia":           {"ruido", "ruidos", "sonido", "sonidos"},
		"aura":                {"destellos", "lucecitas", "manchas"},
		"estres":              {"estresado", "estresada", "nervios", "nervioso", "nerviosa", "ansiedad", "agobio"},
		"tension cuello":      {"cuello", "nuca", "cervicales"},
		"postura":             {"encorvado", "encorvada", "mala postura"},
		"perdida de olfato":   {"huelo", "olfato", "olor", "olores"},
		"perdida de gusto":    {"sabor", "sabores", "gusto"},
		"tos":                 {"tos seca", "tos con flema", "toso", "tosiendo"},
	}

	out := make(map[string]string)
	for canonical, keys := range groups {
		for _, k := range keys {
			out[k] = canonical
		}
	}
	return out
}

func defaultStopwords() []string {
	return []string{
		"a", "al", "algo", "algún", "alguna", "ante", "aquí", "así", "ayer",
		"bastante", "bien", "cada", "casi", "como", "con", "cuando", "cuesta",
		"de", "del", "dejo", "desde", "días", "donde", "duele", "duelen",
		"el", "ella", "en", "entre", "es", "esta", "están", "estoy", "este", "esto",
		"estallar", "fuerte", "ha", "hace", "hay", "hoy", "ir", "jamás",
		"la", "las", "le", "les", "llega", "lo", "los",
		"mal", "más", "me", "mi", "mis", "molesta", "molestan",
		"mucha", "muchas", "mucho", "muchos", "muy",
		"nada", "ni", "no", "noche", "noto", "nunca",
		"o", "otra", "otro", "para", "paro", "pero", "perdí", "poco", "por", "puedo",
		"que", "rato", "reventar", "se", "seca", "seco", "semana", "sí", "siempre",
		"siento", "sin", "sobre", "su", "sus", "también", "tan", "tanto", "te",
		"tener", "tengo", "tiene", "todo", "toda", "todos",
		"un", "una", "uno", "unos", "unas", "va", "vez", "voy", "y", "ya", "yo",
	}
}

func defaultAffirmativeIdioms() []string {
	return []string{
		"no huelo",
		"no siento olor",
		"no siento olores",
		"no siento el olor",
		"no siento sabor",
		"no siento el sabor",
		"no noto sabor",
		"no noto el sabor",
		"no tengo olfato",
		"no tengo gusto",
		"no puedo respirar",
		"no me llega el aire",
		"no paro de",
		"no dejo de",
		"sin olfato",
		"sin gusto",
		"sin sabor",
		"sin aire",
		"sin fuerzas",
	}
}
