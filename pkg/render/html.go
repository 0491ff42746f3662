package render

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/memegen/pkg/errors"
)

var previewTemplate = template.Must(template.New("preview").Funcs(template.FuncMap{
	"px":     func(v float64) string { return num(v) + "px" },
	"num":    num,
	"family": cssFamily,
}).Parse(`<div class="mg-preview" style="position:relative;overflow:hidden;width:{{px .Width}};height:{{px .Height}}">
{{- if .Base}}
<img class="mg-base" src="{{.Base}}" alt="" style="position:absolute;left:0;top:0;width:100%;height:100%;z-index:0">
{{- end}}
{{- range .Nodes}}
<div class="mg-text" data-layer="{{.Name}}" style="position:absolute;left:{{px .Left}};top:{{px .Top}};width:{{px .Width}};min-height:{{px .MinHeight}};font-size:{{px .FontSize}};font-family:{{family .FontFamily}};color:{{.Color}};text-align:center;line-height:{{num .LineHeight}};text-shadow:{{.TextShadow}};z-index:{{.ZIndex}}">
{{- range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end -}}
</div>
{{- end}}
{{- if .Drawing}}
<img class="mg-drawing-layer" src="{{.Drawing}}" alt="" style="position:absolute;left:0;top:0;width:100%;height:100%;z-index:{{.DrawingZ}}">
{{- end}}
</div>
`))

type previewData struct {
	Width, Height float64
	Base          template.URL
	Nodes         []Node
	Drawing       template.URL
	DrawingZ      int
}

// HTML writes the overlay as absolutely positioned blocks over base. Base may
// be nil, in which case only the layers are written. Images are inlined as
// PNG data URLs.
func (o *OverlayOutput) HTML(w io.Writer, base image.Image) error {
	data := previewData{
		Width:  float64(o.Size.X),
		Height: float64(o.Size.Y),
		Nodes:  o.Nodes,
	}
	if base != nil {
		u, err := dataURL(base)
		if err != nil {
			return err
		}
		data.Base = u
	}
	if o.Drawing != nil {
		u, err := dataURL(o.Drawing.Image)
		if err != nil {
			return err
		}
		data.Drawing = u
		data.DrawingZ = o.Drawing.ZIndex
	}
	if err := previewTemplate.Execute(w, data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write preview html")
	}
	return nil
}

func dataURL(img image.Image) (template.URL, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode preview image")
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

// cssFamily drops the quotes CSS allows around family names; the template
// escaper rejects quoted values inside style attributes.
func cssFamily(list string) string {
	return strings.NewReplacer(`"`, "", "'", "").Replace(list)
}
