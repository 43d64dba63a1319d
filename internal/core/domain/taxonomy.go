package domain

import "fmt"

// TaxonomyEntry - одна активность со списком ее секторов.
type TaxonomyEntry struct {
	Activity string   `json:"actividad"`
	Sectors  []string `json:"sectores"`
}

// Taxonomy - справочник Actividad -> Sectores. Строится один раз при старте и
// дальше только читается, поэтому его можно безопасно делить между запросами.
type Taxonomy struct {
	entries []TaxonomyEntry
	index   map[string]map[string]struct{}
}

// NewTaxonomy собирает справочник, сохраняя порядок активностей.
func NewTaxonomy(entries []TaxonomyEntry) (*Taxonomy, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("taxonomy must contain at least one activity")
	}

	t := &Taxonomy{
		entries: make([]TaxonomyEntry, 0, len(entries)),
		index:   make(map[string]map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		if e.Activity == "" {
			return nil, fmt.Errorf("taxonomy contains an activity without name")
		}
		if _, dup := t.index[e.Activity]; dup {
			return nil, fmt.Errorf("taxonomy activity %q is duplicated", e.Activity)
		}
		sectors := make(map[string]struct{}, len(e.Sectors))
		for _, s := range e.Sectors {
			sectors[s] = struct{}{}
		}
		t.index[e.Activity] = sectors
		t.entries = append(t.entries, TaxonomyEntry{
			Activity: e.Activity,
			Sectors:  append([]string(nil), e.Sectors...),
		})
	}
	return t, nil
}

// Activities возвращает активности верхнего уровня в исходном порядке.
func (t *Taxonomy) Activities() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Activity)
	}
	return out
}

// Sectors возвращает сектора активности; ok == false, если активность неизвестна.
func (t *Taxonomy) Sectors(activity string) ([]string, bool) {
	for _, e := range t.entries {
		if e.Activity == activity {
			return append([]string(nil), e.Sectors...), true
		}
	}
	return nil, false
}

func (t *Taxonomy) HasActivity(activity string) bool {
	_, ok := t.index[activity]
	return ok
}

func (t *Taxonomy) HasSector(activity, sector string) bool {
	sectors, ok := t.index[activity]
	if !ok {
		return false
	}
	_, ok = sectors[sector]
	return ok
}

// Entries возвращает копию справочника для ответов API.
func (t *Taxonomy) Entries() []TaxonomyEntry {
	out := make([]TaxonomyEntry, len(t.entries))
	for i, e := range t.entries {
		out[i] = TaxonomyEntry{Activity: e.Activity, Sectors: append([]string(nil), e.Sectors...)}
	}
	return out
}

// DefaultTaxonomy - встроенный справочник, используется если TAXONOMY_FILE не задан.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy([]TaxonomyEntry{
		{Activity: "Hostelería", Sectors: []string{"Restaurante", "Bar / Cafetería", "Hotel", "Catering", "Ocio nocturno"}},
		{Activity: "Comercio", Sectors: []string{"Alimentación", "Moda y complementos", "Farmacia", "Electrónica", "Ferretería", "Comercio online"}},
		{Activity: "Servicios", Sectors: []string{"Peluquería y estética", "Gimnasio", "Lavandería", "Consultoría", "Asesoría y gestoría", "Limpieza"}},
		{Activity: "Industria", Sectors: []string{"Alimentaria", "Metalúrgica", "Textil", "Química", "Artes gráficas"}},
		{Activity: "Construcción", Sectors: []string{"Obra nueva", "Reformas", "Instalaciones", "Promoción inmobiliaria"}},
		{Activity: "Tecnología", Sectors: []string{"Software", "Telecomunicaciones", "Servicios IT", "Marketing digital"}},
		{Activity: "Salud", Sectors: []string{"Clínica dental", "Fisioterapia", "Óptica", "Veterinaria", "Residencia"}},
		{Activity: "Educación", Sectors: []string{"Academia", "Escuela infantil", "Autoescuela", "Formación online"}},
		{Activity: "Transporte y logística", Sectors: []string{"Transporte de mercancías", "Mensajería", "Almacenaje", "Taxi / VTC"}},
		{Activity: "Agricultura", Sectors: []string{"Agrícola", "Ganadera", "Bodega", "Almazara"}},
	})
	if err != nil {
		panic(err)
	}
	return t
}
