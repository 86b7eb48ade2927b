package schema

import (
	"reflect"
	"testing"
)

func TestLookup(t *testing.T) {
	spec, err := Lookup(ChartScatter)
	if err != nil {
		t.Fatalf("Lookup(scatter): %v", err)
	}
	if spec.Transform != TransformArray {
		t.Errorf("scatter transform = %q", spec.Transform)
	}

	if _, err := Lookup("pie"); err == nil {
		t.Error("Lookup(pie) should fail")
	}
}

func TestChartNamesSorted(t *testing.T) {
	if got := ChartNames(); !reflect.DeepEqual(got, []string{"bubble", "scatter"}) {
		t.Errorf("ChartNames = %v", got)
	}
	charts := Charts()
	if len(charts) != 2 || charts[0].Name != ChartBubble {
		t.Errorf("Charts not sorted: %v", charts)
	}
}

func TestAxesOfType(t *testing.T) {
	scatter, _ := Lookup(ChartScatter)
	bubble, _ := Lookup(ChartBubble)

	tests := []struct {
		spec     ChartSpec
		axisType string
		want     []string
	}{
		{scatter, AxisKey, []string{"xAxis"}},
		{scatter, AxisAggregator, []string{"yAxis"}},
		{scatter, AxisGroup, []string{"category"}},
		{bubble, AxisKey, []string{"xAxis", "yAxis"}},
		{bubble, AxisAggregator, []string{"zAxis"}},
	}
	for _, tt := range tests {
		if got := tt.spec.AxesOfType(tt.axisType); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s.AxesOfType(%s) = %v, want %v", tt.spec.Name, tt.axisType, got, tt.want)
		}
	}
}

func TestParameterLookup(t *testing.T) {
	bubble, _ := Lookup(ChartBubble)
	if _, ok := bubble.Parameter("markerRadius"); ok {
		t.Error("bubble should not declare markerRadius")
	}
	ps, ok := bubble.Parameter("zAxisUnit")
	if !ok || ps.ValueType != ValueString {
		t.Errorf("zAxisUnit = %+v, %v", ps, ok)
	}
}

func TestInputWidget(t *testing.T) {
	spec, _ := Lookup(ChartScatter)

	want := map[string]string{
		"mainTitle":     WidgetInput,
		"markerRadius":  WidgetInput,
		"showLegend":    WidgetCheckbox,
		"zoomType":      WidgetOption,
		"xAxisPosition": WidgetOption,
	}
	for name, widget := range want {
		p, ok := spec.Parameter(name)
		if !ok {
			t.Fatalf("missing parameter %s", name)
		}
		if got := p.InputWidget(); got != widget {
			t.Errorf("%s widget = %q, want %q", name, got, widget)
		}
	}
}
