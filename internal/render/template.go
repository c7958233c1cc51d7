package render

import "text/template"

// jsFragment embeds one interactive plot in the notebook page. Every div id
// must be unique across all open notebooks on the same HTML page. The
// loader chain tries require.js (classic notebook), then an already-loaded
// global renderer, then a local script, then the CDN fallback.
var jsFragment = template.Must(template.New("jsplot").Parse(`
<div id="{{.DivID}}"
     style="width: {{.Width}}px; height: {{.Height}}px">
</div>
<script>
if (typeof require !== 'undefined') {

    require(['scripts/JSRoot.core'],
        function(Core) {
           display_{{.DivID}}(Core);
        }
    );

} else if (typeof JSROOT !== 'undefined') {

   display_{{.DivID}}(JSROOT);

} else {

    try {
        var base_url = JSON.parse(document.getElementById('jupyter-config-data').innerHTML).baseUrl;
    } catch(_) {
        var base_url = '/';
    }

    script_load(base_url + '{{.LocalURL}}', script_success, function(){
        console.error('Failed to load the renderer locally, please check the notebook configuration');
        script_load('{{.CDNURL}}', script_success, function(){
            document.getElementById("{{.DivID}}").innerHTML = "Failed to load JSROOT";
        });
    });
}

function script_load(src, on_load, on_error) {
    var script = document.createElement('script');
    script.src = src;
    script.onload = on_load;
    script.onerror = on_error;
    document.head.appendChild(script);
}

function script_success() {
   display_{{.DivID}}(JSROOT);
}

function display_{{.DivID}}(Core) {
   var obj = Core.parse({{.JSON}});
   Core.settings.HandleKeys = false;
   Core.draw("{{.DivID}}", obj, "{{.DrawOptions}}");
}
</script>
`))

// fragmentData feeds jsFragment.
type fragmentData struct {
	DivID       string
	Width       int
	Height      int
	JSON        string
	DrawOptions string
	LocalURL    string
	CDNURL      string
}
