package views

import (
	"context"
	"fmt"
	"net/url"

	"github.com/a-h/templ"
	"github.com/isdelr/gymdiary/internal/models"
)

// SignupForm holds the values re-rendered after a failed signup. Passwords
// are never echoed back.
type SignupForm struct {
	FirstName string
	LastName  string
	Email     string
}

// DiaryForm holds the values re-rendered after a failed diary entry.
type DiaryForm struct {
	Category    string
	WorkoutName string
	Sets        string
	Reps        string
	Weight      string
}

// Home is the landing page.
func Home(nav Nav) templ.Component {
	return Page("Home", nav, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Track every set.</h1><p>Log your workouts and follow your progress day by day.</p>`)
		if !nav.Authenticated {
			h.raw(`<p><a href="/signup">Create an account</a> or <a href="/login">log in</a>.</p>`)
		}
	}))
}

// Signup is the registration form.
func Signup(form SignupForm, errMsg string) templ.Component {
	return Page("Sign up", Nav{}, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Sign up</h1>`)
		formError(h, errMsg)
		h.raw(`<form method="post" action="/signup">`)
		input(h, "First name", "text", "firstname", form.FirstName)
		input(h, "Last name", "text", "lastname", form.LastName)
		input(h, "Email", "email", "email", form.Email)
		input(h, "Password", "password", "password", "")
		input(h, "Confirm password", "password", "confirmPassword", "")
		h.raw(`<button type="submit">Sign up</button></form>`)
	}))
}

// Login is the login form.
func Login(email, errMsg string) templ.Component {
	return Page("Log in", Nav{}, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Log in</h1>`)
		formError(h, errMsg)
		h.raw(`<form method="post" action="/login">`)
		input(h, "Email", "email", "email", email)
		input(h, "Password", "password", "password", "")
		h.raw(`<button type="submit">Log in</button></form>`)
	}))
}

// Dashboard greets the member and streams today's entries.
func Dashboard(nav Nav) templ.Component {
	return Page("Dashboard", nav, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Welcome, `)
		h.text(nav.Name)
		h.raw(`</h1><p><a href="/diary">Add a workout</a></p><h2>Today</h2><div id="workouts"></div>`)
		if nav.Trainer {
			h.raw(`<p><a href="/workouts/all">All members' workouts</a></p>`)
		}
		h.raw(dashboardScript)
	}))
}

// Categories lists the workout catalog.
func Categories(nav Nav, categories []models.WorkoutCategory) templ.Component {
	return Page("Workouts", nav, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Workout categories</h1><ul class="categories">`)
		for _, c := range categories {
			h.raw(`<li><a href="/workouts/` + url.PathEscape(c.Category) + `">`)
			h.text(c.Category)
			h.raw(`</a> `)
			h.text(c.Description)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	}))
}

// Category shows one category and its exercises.
func Category(nav Nav, c models.WorkoutCategory) templ.Component {
	return Page(c.Category, nav, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(c.Category)
		h.raw(`</h1><p>`)
		h.text(c.Description)
		h.raw(`</p><ul class="exercises">`)
		for _, e := range c.Exercises {
			h.raw(`<li>`)
			h.text(e)
			h.raw(`</li>`)
		}
		h.raw(`</ul><p><a href="/workouts">All categories</a></p>`)
	}))
}

// Diary is the entry form followed by today's entries.
func Diary(nav Nav, categories []models.WorkoutCategory, form DiaryForm, errMsg string) templ.Component {
	return Page("Diary", nav, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Workout diary</h1>`)
		formError(h, errMsg)
		h.raw(`<form id="workout-form" method="post" action="/diary"><label>Category <select name="category" id="category">`)
		for _, c := range categories {
			h.raw(`<option value="`)
			h.text(c.Category)
			h.raw(`"`)
			if c.Category == form.Category {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(c.Category)
			h.raw(`</option>`)
		}
		h.raw(`</select></label>`)
		input(h, "Workout", "text", "workoutName", form.WorkoutName)
		input(h, "Sets", "number", "sets", form.Sets)
		input(h, "Reps", "number", "reps", form.Reps)
		input(h, "Weight (kg)", "number", "weight", form.Weight)
		h.raw(`<button type="submit">Add workout</button></form><h2>Today</h2><div id="workouts"></div>`)
		h.raw(dashboardScript)
	}))
}

// NotFound is the 404 page.
func NotFound(nav Nav, what string) templ.Component {
	return Page("Not found", nav, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>Not found</h1><p>`)
		h.text(fmt.Sprintf("%s could not be found.", what))
		h.raw(`</p>`)
	}))
}

// dashboardScript loads today's entries and appends new ones pushed over
// the diary feed.
const dashboardScript = `<script>
(function () {
  var list = document.getElementById('workouts');
  function esc(s) { var d = document.createElement('div'); d.textContent = String(s); return d.innerHTML; }
  function add(w) {
    list.insertAdjacentHTML('beforeend', '<div class="card"><h5>' + esc(w.workoutName) + '</h5><p>' + esc(w.category) +
      '</p><p>' + esc(w.sets) + ' sets x ' + esc(w.reps) + ' reps @ ' + esc(w.weight) + ' kg</p></div>');
  }
  var today = new Date().toISOString().split('T')[0];
  fetch('/diary/' + today, {headers: {Accept: 'application/json'}})
    .then(function (r) { return r.json(); })
    .then(function (data) {
      list.innerHTML = '';
      if (!data.workouts || data.workouts.length === 0) { list.innerHTML = '<p>No workouts for today.</p>'; return; }
      data.workouts.forEach(add);
    })
    .catch(function (err) { console.error('Error fetching workouts:', err); });
  var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
  var feed = new WebSocket(proto + location.host + '/diary/feed');
  feed.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    if (msg.action === 'workout_recorded') {
      if (list.querySelector('p')) { list.innerHTML = ''; }
      add(msg.payload);
    }
  };
})();
</script>`
